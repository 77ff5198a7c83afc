package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/fatalstats/internal/config"
	"github.com/verte-zerg/fatalstats/internal/model"
)

const testCSV = `id,name,date,manner_of_death,armed,age,gender,race,city,state
1,A,2015-01-02,shot,gun,20,M,W,Seattle,WA
2,B,2015-03-04,shot,gun,35,M,B,Austin,TX
3,C,2016-05-06,shot,knife,,F,W,Dallas,TX
4,D,2016-07-08,shot,gun,70,M,H,Tacoma,WA
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--source", path, "--no-meta", "--width", "80"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRacesCommand(t *testing.T) {
	out, err := runCLI(t, "races")
	if err != nil {
		t.Fatalf("races: %v", err)
	}
	if !strings.Contains(out, "Number of deaths per race") || !strings.Contains(out, "Total: 4") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRacesCommandSingleRace(t *testing.T) {
	out, err := runCLI(t, "races", "--race", "W")
	if err != nil {
		t.Fatalf("races: %v", err)
	}
	if !strings.Contains(out, "Count by age group (White)") || !strings.Contains(out, "Total count: 2") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRacesCommandRejectsUnknownCode(t *testing.T) {
	if _, err := runCLI(t, "races", "--race", "X"); err == nil {
		t.Fatalf("expected error for unknown race code")
	}
}

func TestYearsCommand(t *testing.T) {
	out, err := runCLI(t, "years")
	if err != nil {
		t.Fatalf("years: %v", err)
	}
	if !strings.Contains(out, "2015 │") || !strings.Contains(out, "Data currency unknown") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, "years", "--year", "2016", "--top", "1")
	if err != nil {
		t.Fatalf("years --year: %v", err)
	}
	if !strings.Contains(out, "Top 1 states in 2016") || !strings.Contains(out, "Texas: 1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Washington") {
		t.Fatalf("expected tie broken alphabetically by code:\n%s", out)
	}
}

func TestStatesCommand(t *testing.T) {
	out, err := runCLI(t, "states")
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if !strings.Contains(out, "1. Texas (TX): 2") || !strings.Contains(out, "2. Washington (WA): 2") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, "states", "--state", "wa")
	if err != nil {
		t.Fatalf("states --state: %v", err)
	}
	if !strings.Contains(out, "Count by race in Washington") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestMissingSourceFails(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"races", "--source", filepath.Join(t.TempDir(), "missing.csv"), "--no-meta"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing source")
	}
}

func TestResolveConfigPrefersFlags(t *testing.T) {
	cmd := newStatesCmd()
	if err := cmd.ParseFlags([]string{"--top", "3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	timeout := 5
	top := 9
	source := "data.csv"
	width := 100
	dataTimeout = defaultTimeout
	dataRepo = "owner/repo"
	logMode = defaultLogMode
	t.Setenv("TEST_FATALSTATS_TOKEN", " secret ")
	tokenEnv := "TEST_FATALSTATS_TOKEN"
	fileCfg := config.FileConfig{
		Data: config.DataConfig{
			Source:   &source,
			TokenEnv: &tokenEnv,
			Timeout:  &timeout,
		},
		Display: config.DisplayConfig{Top: &top, Width: &width},
		Regions: map[string]string{"gu": "Guam"},
	}

	loadCfg, display, err := resolveConfig(cmd, fileCfg)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if loadCfg.Source != "data.csv" || loadCfg.Timeout != 5*time.Second || loadCfg.Token != "secret" {
		t.Fatalf("unexpected load config: %+v", loadCfg)
	}
	if display.Top != 3 {
		t.Fatalf("expected flag top to win, got %d", display.Top)
	}
	if display.Width != 100 {
		t.Fatalf("expected config width, got %d", display.Width)
	}
	if display.Regions["GU"] != "Guam" || display.Regions["CA"] != "California" {
		t.Fatalf("unexpected regions")
	}
}

func TestValidateConfig(t *testing.T) {
	logMode = defaultLogMode
	valid := model.LoadConfig{Source: "x.csv", Repo: "a/b", Timeout: time.Second}
	display := model.DisplayConfig{Top: 5}
	if err := validateConfig(valid, display); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
	bad := valid
	bad.Timeout = 0
	if err := validateConfig(bad, display); err == nil {
		t.Fatalf("expected timeout error")
	}
	bad = valid
	bad.Repo = ""
	if err := validateConfig(bad, display); err == nil {
		t.Fatalf("expected repo error")
	}
	bad.NoMeta = true
	if err := validateConfig(bad, display); err != nil {
		t.Fatalf("expected repo to be optional without metadata: %v", err)
	}
	if err := validateConfig(valid, model.DisplayConfig{Top: 0}); err == nil {
		t.Fatalf("expected top error")
	}
	logMode = "loud"
	defer func() { logMode = defaultLogMode }()
	if err := validateConfig(valid, display); err == nil {
		t.Fatalf("expected log mode error")
	}
}

func TestParseRaceFlag(t *testing.T) {
	if r, err := parseRaceFlag(" H "); err != nil || r != model.RaceHispanic {
		t.Fatalf("unexpected parse: %v %v", r, err)
	}
	if r, err := parseRaceFlag("unknown"); err != nil || r != model.RaceUnknown {
		t.Fatalf("unexpected parse: %v %v", r, err)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fatalstats", "config.toml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template must decode: %v", err)
	}
	if cfg.Data.Source != nil || cfg.Display.Top != nil {
		t.Fatalf("template values must be commented out")
	}
	if err := os.WriteFile(path, []byte("[display]\ntop = 2\n"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	cfg, err = config.LoadConfig(path)
	if err != nil || cfg.Display.Top == nil || *cfg.Display.Top != 2 {
		t.Fatalf("existing config must be preserved")
	}
}
