// Package main provides the CLI entrypoint for fatalstats.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/fatalstats/internal/config"
	"github.com/verte-zerg/fatalstats/internal/dataset"
	"github.com/verte-zerg/fatalstats/internal/logger"
	"github.com/verte-zerg/fatalstats/internal/model"
	"github.com/verte-zerg/fatalstats/internal/report"
	"github.com/verte-zerg/fatalstats/internal/viewer"
)

const (
	defaultRepoPath = "fatal-police-shootings-data.csv"
	defaultTokenEnv = "GITHUB_TOKEN"
	defaultTimeout  = 60
	defaultLogMode  = "off"
)

var (
	dataSource   string
	dataRepo     string
	dataRepoPath string
	dataTokenEnv string
	dataTimeout  int
	dataNoMeta   bool

	displayColor bool
	displayWidth int
	displayTop   int
	logMode      string

	racesRace   string
	yearsYear   int
	statesState string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fatalstats",
		Short:         "Browse fatal police shooting statistics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runViewerCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataSource, "source", dataset.DefaultSourceURL, "CSV URL or local path")
	flags.StringVar(&dataRepo, "repo", dataset.DefaultRepo, "GitHub repository (owner/name) used for the update date")
	flags.StringVar(&dataRepoPath, "repo-path", defaultRepoPath, "path inside the repository used for the update date")
	flags.StringVar(&dataTokenEnv, "token-env", defaultTokenEnv, "environment variable holding a GitHub token")
	flags.IntVar(&dataTimeout, "timeout", defaultTimeout, "network timeout in seconds")
	flags.BoolVar(&dataNoMeta, "no-meta", false, "skip fetching the update date")
	flags.BoolVar(&displayColor, "color", false, "force colored output")
	flags.IntVar(&displayWidth, "width", 0, "output width (default: terminal width)")
	flags.StringVar(&logMode, "log", defaultLogMode, "log mode: dev, prod or off")
	rootCmd.Flags().IntVar(&displayTop, "top", report.DefaultTop, "number of ranked entries")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRacesCmd())
	rootCmd.AddCommand(newYearsCmd())
	rootCmd.AddCommand(newStatesCmd())

	return rootCmd
}

func runViewerCmd(cmd *cobra.Command, _ []string) error {
	res, display, err := loadResult(cmd)
	if err != nil {
		return err
	}
	program := tea.NewProgram(viewer.NewModel(res, display), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newRacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "races",
		Short: "Show deaths per race",
		Args:  cobra.NoArgs,
		RunE:  runRacesCmd,
	}
	cmd.Flags().StringVar(&racesRace, "race", "", "race code (W, B, A, N, H, O or unknown) for an age breakdown")
	return cmd
}

func runRacesCmd(cmd *cobra.Command, _ []string) error {
	race, err := parseRaceFlag(racesRace)
	if err != nil {
		return err
	}
	res, display, err := loadResult(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("race") {
		return report.RenderAgeGroups(out, race, res.Agg.ByRace.Stats[race])
	}
	return report.RenderRaces(out, res.Agg.ByRace.Stats, reportOptions(display))
}

func newYearsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "years",
		Short: "Show deaths per year",
		Args:  cobra.NoArgs,
		RunE:  runYearsCmd,
	}
	cmd.Flags().IntVar(&yearsYear, "year", 0, "year for a top-states breakdown")
	cmd.Flags().IntVar(&displayTop, "top", report.DefaultTop, "number of ranked states")
	return cmd
}

func runYearsCmd(cmd *cobra.Command, _ []string) error {
	res, display, err := loadResult(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("year") {
		return report.RenderTopStates(out, yearsYear, res.Agg.ByYear.Stats[yearsYear], display.Regions, display.Top)
	}
	updated := time.Time{}
	if res.HasUpdated() {
		updated = res.Updated
	}
	return report.RenderYears(out, res.Agg.ByYear.Stats, updated, reportOptions(display))
}

func newStatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "states",
		Short: "Show deaths per state",
		Args:  cobra.NoArgs,
		RunE:  runStatesCmd,
	}
	cmd.Flags().StringVar(&statesState, "state", "", "two-letter state code for a race breakdown")
	cmd.Flags().IntVar(&displayTop, "top", report.DefaultTop, "number of ranked states")
	return cmd
}

func runStatesCmd(cmd *cobra.Command, _ []string) error {
	res, display, err := loadResult(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("state") {
		state := dataset.NormalizeState(statesState)
		return report.RenderStateRaces(out, state, res.Agg.ByState.Stats[state], display.Regions)
	}
	return report.RenderStates(out, res.Agg.ByState.Stats, reportOptions(display))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config file from the template unless it exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// loadResult merges the config file into unset flags, then fetches and folds
// the dataset.
func loadResult(cmd *cobra.Command) (*dataset.Result, model.DisplayConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, model.DisplayConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	loadCfg, display, err := resolveConfig(cmd, fileCfg)
	if err != nil {
		return nil, model.DisplayConfig{}, err
	}

	log, err := logger.New(logMode)
	if err != nil {
		return nil, model.DisplayConfig{}, fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src := dataset.ParseSource(loadCfg.Source, loadCfg.Timeout)
	var upd dataset.UpdateSource
	if !loadCfg.NoMeta {
		gh, err := dataset.NewGitHubCommits(ctx, loadCfg.Repo, loadCfg.RepoPath, loadCfg.Token, loadCfg.Timeout)
		if err != nil {
			log.Warn("update metadata disabled", "repo", loadCfg.Repo, "err", err)
		} else {
			upd = gh
		}
	}

	log.Debug("loading dataset", "source", src.String(), "meta", upd != nil)
	res, err := dataset.Load(ctx, src, upd, log)
	if err != nil {
		return nil, model.DisplayConfig{}, fmt.Errorf("failed to load dataset: %w", err)
	}
	if !loadCfg.NoMeta && res.UpdatedErr != nil {
		logErrf("warning: %v\n", res.UpdatedErr)
	}
	if res.Agg.ByYear.Skipped > 0 {
		log.Info("records without a parseable date", "count", res.Agg.ByYear.Skipped)
	}
	return res, display, nil
}

func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.LoadConfig, model.DisplayConfig, error) {
	applyStringConfig(cmd, "source", &dataSource, fileCfg.Data.Source)
	applyStringConfig(cmd, "repo", &dataRepo, fileCfg.Data.Repo)
	applyStringConfig(cmd, "repo-path", &dataRepoPath, fileCfg.Data.RepoPath)
	applyStringConfig(cmd, "token-env", &dataTokenEnv, fileCfg.Data.TokenEnv)
	applyIntConfig(cmd, "timeout", &dataTimeout, fileCfg.Data.Timeout)
	applyIntConfig(cmd, "top", &displayTop, fileCfg.Display.Top)
	applyIntConfig(cmd, "width", &displayWidth, fileCfg.Display.Width)
	applyBoolConfig(cmd, "color", &displayColor, fileCfg.Display.Color)

	regions, err := config.Regions(fileCfg)
	if err != nil {
		return model.LoadConfig{}, model.DisplayConfig{}, err
	}

	token := ""
	if dataTokenEnv != "" {
		token = strings.TrimSpace(os.Getenv(dataTokenEnv))
	}
	loadCfg := model.LoadConfig{
		Source:   dataSource,
		Repo:     dataRepo,
		RepoPath: dataRepoPath,
		Token:    token,
		NoMeta:   dataNoMeta,
		Timeout:  time.Duration(dataTimeout) * time.Second,
	}
	display := model.DisplayConfig{
		Top:     displayTop,
		Width:   displayWidth,
		Color:   displayColor,
		Regions: regions,
	}
	if err := validateConfig(loadCfg, display); err != nil {
		return model.LoadConfig{}, model.DisplayConfig{}, err
	}
	return loadCfg, display, nil
}

func reportOptions(display model.DisplayConfig) report.Options {
	return report.Options{
		Width:   display.Width,
		Color:   display.Color,
		Top:     display.Top,
		Regions: display.Regions,
	}
}

func parseRaceFlag(value string) (model.Race, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "unknown") {
		return model.RaceUnknown, nil
	}
	race := model.ParseRace(value)
	if race == model.RaceUnknown {
		return model.RaceUnknown, fmt.Errorf("unknown race code %q", value)
	}
	return race, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# fatalstats configuration
# Uncomment a value to enable it. CLI flags override config values.

[data]
# source = %q
# repo = %q                # Repository used for the update date
# repo-path = %q           # File the update date is taken from
# token-env = %q           # Environment variable holding a GitHub token
# timeout = %d             # Network timeout in seconds

[display]
# top = %d                 # Number of ranked entries
# color = false            # Force colored output
# width = 0                # Output width (0 uses the terminal width)

[regions]
# GU = "Guam"
`,
		dataset.DefaultSourceURL,
		dataset.DefaultRepo,
		defaultRepoPath,
		defaultTokenEnv,
		defaultTimeout,
		report.DefaultTop,
	)
}

func validateConfig(loadCfg model.LoadConfig, display model.DisplayConfig) error {
	if strings.TrimSpace(loadCfg.Source) == "" {
		return fmt.Errorf("--source must not be empty")
	}
	if loadCfg.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if !loadCfg.NoMeta && strings.TrimSpace(loadCfg.Repo) == "" {
		return fmt.Errorf("--repo must not be empty unless --no-meta is set")
	}
	if display.Top <= 0 {
		return fmt.Errorf("--top must be > 0")
	}
	if display.Width < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	switch logMode {
	case "dev", "prod", "off", "none", "":
	default:
		return fmt.Errorf("--log must be one of dev, prod, off")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
