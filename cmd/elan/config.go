package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/phroun/elan"
	"gopkg.in/yaml.v3"
)

// cliConfig holds configuration loaded from ~/.elan/elan.yaml
type cliConfig struct {
	Requires       string   `yaml:"requires"`        // semver constraint on the CLI version
	TermBackground string   `yaml:"term_background"` // "light", "dark", or "auto" (auto defaults to dark)
	HistoryFile    string   `yaml:"history_file"`
	Debug          bool     `yaml:"debug"`
	LogCategories  []string `yaml:"log_categories"`
	MaxLoop        int      `yaml:"max_loop_iterations"`
	MaxDepth       int      `yaml:"max_call_depth"`
	ContextLines   int      `yaml:"context_lines"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		TermBackground: "auto",
		HistoryFile:    "history",
		MaxLoop:        elan.DefaultMaxLoopIterations,
		MaxDepth:       elan.DefaultMaxCallDepth,
		ContextLines:   2,
	}
}

const defaultConfigText = `# ELAN CLI configuration
# This file is automatically created on first run

# Version constraint this configuration expects, e.g. ">= 0.1.0, < 1.0.0"
requires: ""

# Terminal background color for diagnostics
# Options: "auto", "dark", "light"
term_background: "auto"

# REPL history, relative to this directory unless absolute
history_file: "history"

debug: false
log_categories: []
max_loop_iterations: 10000
max_call_depth: 256
context_lines: 2
`

// getConfigDir returns the path to ~/.elan
func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".elan")
}

// getConfigFilePath returns the path to ~/.elan/elan.yaml
func getConfigFilePath() string {
	dir := getConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "elan.yaml")
}

// loadCLIConfig reads the configuration at path. A missing default file is
// created with defaults; a missing explicit file is an error.
func loadCLIConfig(path string, explicit bool) (cliConfig, error) {
	if path == "" {
		return defaultCLIConfig(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		createDefaultConfig(path)
		return defaultCLIConfig(), nil
	}
	if err != nil {
		return cliConfig{}, err
	}
	defer f.Close()

	cfg, err := decodeCLIConfig(f)
	if err != nil {
		return cliConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.HistoryFile != "" && !filepath.IsAbs(cfg.HistoryFile) {
		cfg.HistoryFile = filepath.Join(filepath.Dir(path), cfg.HistoryFile)
	}
	return cfg, nil
}

// decodeCLIConfig decodes YAML over the defaults. Unknown keys are errors.
func decodeCLIConfig(r io.Reader) (cliConfig, error) {
	cfg := defaultCLIConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cliConfig{}, err
	}

	cfg.TermBackground = strings.ToLower(strings.TrimSpace(cfg.TermBackground))
	switch cfg.TermBackground {
	case "", "auto":
		cfg.TermBackground = "auto"
	case "light", "dark":
	default:
		return cliConfig{}, fmt.Errorf("term_background must be auto, dark or light, got %q", cfg.TermBackground)
	}
	if cfg.MaxLoop < 0 || cfg.MaxDepth < 0 {
		return cliConfig{}, fmt.Errorf("limits must not be negative")
	}
	return cfg, nil
}

// createDefaultConfig creates the default config file
func createDefaultConfig(configPath string) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return // Graceful failure
	}
	_ = os.WriteFile(configPath, []byte(defaultConfigText), 0644)
}

// checkVersion verifies the running version against the requires constraint.
// Development builds without a semantic version are not checked.
func (c cliConfig) checkVersion(current string) error {
	if strings.TrimSpace(c.Requires) == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
	}
	v, err := semver.NewVersion(current)
	if err != nil {
		return nil
	}
	if ok, reasons := constraint.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return fmt.Errorf("elan %s does not satisfy %q: %s", v, c.Requires, strings.Join(msgs, "; "))
	}
	return nil
}

// interpreterConfig converts file settings to an interpreter Config
func (c cliConfig) interpreterConfig() *elan.Config {
	config := elan.DefaultConfig()
	config.Debug = c.Debug
	config.LogCategories = append([]string(nil), c.LogCategories...)
	config.MaxLoopIterations = c.MaxLoop
	config.MaxCallDepth = c.MaxDepth
	config.ContextLines = c.ContextLines
	return config
}
