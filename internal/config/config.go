// Package config provides configuration loading.
//
// Values are resolved in this order, later sources winning: built-in defaults,
// the user config file, the project file (.repokit.toml in the working
// directory), then REPOKIT_* environment variables.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

// File permission constants
const (
	FileModeDir  os.FileMode = 0755
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the extension of configuration files.
	FileExtTOML = ".toml"
	// ProjectFileName is the per-project configuration file.
	ProjectFileName = ".repokit" + FileExtTOML
)

// Config is the resolved repokit configuration.
type Config struct {
	ConfigDir       string `toml:"config_dir" env:"REPOKIT_CONFIG_DIR"`
	StateDir        string `toml:"state_dir" env:"REPOKIT_STATE_DIR"`
	Debug           bool   `toml:"debug" env:"REPOKIT_DEBUG"`
	LoggingEnabled  bool   `toml:"logging_enabled" env:"REPOKIT_LOGGING_ENABLED"`
	LoggingLevel    string `toml:"logging_level" env:"REPOKIT_LOGGING_LEVEL"`
	LoggingMaxFiles int    `toml:"logging_max_files" env:"REPOKIT_LOGGING_MAX_FILES"`
	HistoryEnabled  bool   `toml:"history_enabled" env:"REPOKIT_HISTORY_ENABLED"`
	HistoryPath     string `toml:"history_path" env:"REPOKIT_HISTORY_PATH"`
	DocsTool        string `toml:"docs_tool" env:"REPOKIT_DOCS_TOOL"`
	DocsConfig      string `toml:"docs_config" env:"REPOKIT_DOCS_CONFIG"`
	DocsRoot        string `toml:"docs_root" env:"REPOKIT_DOCS_ROOT"`
	DistDir         string `toml:"dist_dir" env:"REPOKIT_DIST_DIR"`
}

var knownKeys = []string{
	"config_dir", "state_dir", "debug",
	"logging_enabled", "logging_level", "logging_max_files",
	"history_enabled", "history_path",
	"docs_tool", "docs_config", "docs_root", "dist_dir",
}

var (
	current *Config
	mu      sync.RWMutex
)

// Defaults returns the built-in configuration.
func Defaults() *Config {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	return &Config{
		ConfigDir:       filepath.Join(xdgConfigHome, "repokit"),
		StateDir:        filepath.Join(xdgStateHome, "repokit"),
		LoggingLevel:    "info",
		LoggingMaxFiles: 10,
		DocsTool:        "typedoc",
		DocsConfig:      "typedoc.json",
		DistDir:         "dist",
	}
}

// Load resolves the configuration for workDir and makes it the current one.
func Load(workDir string) *Config {
	cfg := Defaults()
	defaults := *cfg

	// Environment first so REPOKIT_CONFIG_DIR can move the user file.
	loadFromEnv(cfg)
	loadFromFile(cfg, userConfigPath(cfg))
	if workDir != "" {
		loadFromFile(cfg, filepath.Join(workDir, ProjectFileName))
	}
	loadFromEnv(cfg)

	validate(cfg, &defaults)
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = filepath.Join(cfg.StateDir, "history.db")
	}

	mu.Lock()
	current = cfg
	mu.Unlock()
	return cfg
}

// Current returns the most recently loaded configuration, or the defaults
// when Load has not run.
func Current() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return Defaults()
	}
	return current
}

func userConfigPath(cfg *Config) string {
	if p := os.Getenv("REPOKIT_CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join(cfg.ConfigDir, "config"+FileExtTOML)
}

// loadFromFile overlays the keys present in path onto cfg. A missing file is
// not an error; a malformed one is reported and skipped.
func loadFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			colors.Debug(fmt.Sprintf("unable to read config file %s: %v", path, err))
		}
		return
	}
	if !strings.EqualFold(filepath.Ext(path), FileExtTOML) {
		colors.Warning(fmt.Sprintf("unsupported config file type: %s", path))
		return
	}

	overlay := *cfg
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&overlay); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", path, err))
		return
	}
	*cfg = overlay

	if unknown := unknownKeys(data); len(unknown) > 0 {
		colors.Warning(fmt.Sprintf("unknown keys in %s: %s", path, strings.Join(unknown, ", ")))
	}
}

func unknownKeys(data []byte) []string {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	var unknown []string
	for k := range raw {
		if !slices.Contains(knownKeys, k) {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func loadFromEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		colors.Warning(fmt.Sprintf("invalid environment configuration: %v", err))
	}
}
