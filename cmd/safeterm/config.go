package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Config struct {
	Defaults  Defaults        `json:"defaults"`
	Retention RetentionConfig `json:"retention"`
	Keywords  KeywordConfig   `json:"keywords"`
}

type Defaults struct {
	TimeoutSec   int    `json:"timeout_sec"`
	GraceMs      int    `json:"grace_ms"`
	OutputDir    string `json:"output_dir"`
	StatusLimit  int    `json:"status_limit"`
	ContextLimit int    `json:"context_limit"`
	ContextLines int    `json:"context_lines"`
}

// RetentionConfig bounds the run log store. Zero values keep everything,
// which matches the documented default: logs accumulate until the
// operator intervenes.
type RetentionConfig struct {
	MaxAgeHours int `json:"max_age_hours"`
	MaxCount    int `json:"max_count"`
}

// KeywordConfig overrides the built-in classifier keyword lists.
// Empty lists fall back to the built-ins.
type KeywordConfig struct {
	Test  []string `json:"test"`
	Build []string `json:"build"`
	Long  []string `json:"long"`
}

const (
	defaultTimeoutSec   = 8
	defaultGraceMs      = 1000
	defaultStatusLimit  = 5
	defaultContextLimit = 3
	defaultContextLines = 50
)

func defaultOutputDir() string {
	return filepath.Join(os.TempDir(), "safeterm-outputs")
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("SAFETERM_CONFIG"); env != "" {
		return env
	}
	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, ".safeterm", "safeterm.json")
		if pathExists(local) {
			return local
		}
	}
	return filepath.Join(safetermHome(), "safeterm.json")
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigOrEmpty(path string) (Config, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}

func normalizeDefaults(d Defaults) Defaults {
	if d.TimeoutSec <= 0 {
		d.TimeoutSec = defaultTimeoutSec
	}
	if d.GraceMs <= 0 {
		d.GraceMs = defaultGraceMs
	}
	if d.OutputDir == "" {
		d.OutputDir = getenv("SAFETERM_OUTPUT_DIR", defaultOutputDir())
	}
	if d.StatusLimit <= 0 {
		d.StatusLimit = defaultStatusLimit
	}
	if d.ContextLimit <= 0 {
		d.ContextLimit = defaultContextLimit
	}
	if d.ContextLines <= 0 {
		d.ContextLines = defaultContextLines
	}
	return d
}
