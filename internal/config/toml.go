// Package config provides configuration helpers and TOML parsing.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed regions.toml
var defaultRegionsTOML string

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data    DataConfig        `toml:"data"`
	Display DisplayConfig     `toml:"display"`
	Regions map[string]string `toml:"regions"`
}

// DataConfig maps data source settings.
type DataConfig struct {
	Source   *string `toml:"source"`
	Repo     *string `toml:"repo"`
	RepoPath *string `toml:"repo-path"`
	TokenEnv *string `toml:"token-env"`
	Timeout  *int    `toml:"timeout"`
}

// DisplayConfig maps rendering settings.
type DisplayConfig struct {
	Top   *int  `toml:"top"`
	Color *bool `toml:"color"`
	Width *int  `toml:"width"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DefaultRegions returns the bundled region code to name table.
func DefaultRegions() (map[string]string, error) {
	var table struct {
		Regions map[string]string `toml:"regions"`
	}
	if _, err := toml.Decode(defaultRegionsTOML, &table); err != nil {
		return nil, fmt.Errorf("failed to decode bundled regions: %w", err)
	}
	return table.Regions, nil
}

// Regions returns the bundled region table with overrides from cfg applied.
// Codes are matched case-insensitively and stored upper-case.
func Regions(cfg FileConfig) (map[string]string, error) {
	regions, err := DefaultRegions()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(regions)+len(cfg.Regions))
	for code, name := range regions {
		out[strings.ToUpper(code)] = name
	}
	for code, name := range cfg.Regions {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		out[code] = name
	}
	return out, nil
}
