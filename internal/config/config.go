// Package config provides configuration management for pioneerctl.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (PIONEERCTL_*)
// 3. Project config (.pioneerctl/config.yaml in cwd)
// 4. Home config (~/.pioneerctl/config.yaml)
// 5. Defaults
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all pioneerctl configuration.
type Config struct {
	// Binary pins the Pioneer executable, bypassing discovery.
	Binary string `yaml:"binary" json:"binary"`

	// ParamsDir overrides the directory for persisted parameter documents
	// (default: <user config dir>/pioneerctl).
	ParamsDir string `yaml:"params_dir" json:"params_dir"`

	// LogDir stores run logs; empty means a per-run scratch directory.
	LogDir string `yaml:"log_dir" json:"log_dir"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Run settings.
	Run RunConfig `yaml:"run" json:"run"`
}

// RunConfig holds run-specific settings.
type RunConfig struct {
	// Terminal controls the companion terminal tailing the run log.
	// Values: "auto" (default, best-effort spawn), "never".
	Terminal string `yaml:"terminal" json:"terminal"`
}

const defaultTerminalMode = "auto"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Terminal: defaultTerminalMode,
		},
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	homeConfig, _ := loadFromPath(homeConfigPath())
	if homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	projectConfig, _ := loadFromPath(projectConfigPath())
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pioneerctl", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("PIONEERCTL_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".pioneerctl", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("PIONEERCTL_BINARY"); v != "" {
		cfg.Binary = v
	}
	if v := os.Getenv("PIONEERCTL_PARAMS_DIR"); v != "" {
		cfg.ParamsDir = v
	}
	if v := os.Getenv("PIONEERCTL_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("PIONEERCTL_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("PIONEERCTL_TERMINAL"); v != "" {
		cfg.Run.Terminal = v
	}
	return cfg
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// merge merges src into dst, with src values taking precedence.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Binary, src.Binary)
	mergeStr(&dst.ParamsDir, src.ParamsDir)
	mergeStr(&dst.LogDir, src.LogDir)
	if src.Verbose {
		dst.Verbose = true
	}
	mergeStr(&dst.Run.Terminal, src.Run.Terminal)
	return dst
}
