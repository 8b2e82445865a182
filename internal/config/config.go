// Package config resolves where outpost keeps its save database and where
// it reads authored content from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration. Zero values mean
// "use the default for this field".
type Config struct {
	// DataDir holds the save database; defaults per OS.
	DataDir string `yaml:"data_dir"`
	// ContentDir overrides the embedded content pack when set.
	ContentDir string `yaml:"content_dir"`
	// DBPath overrides DataDir/outpost.db when set.
	DBPath string `yaml:"db_path"`
}

// Load resolves the configuration: defaults, then config.yaml in the data
// dir if present, then the OUTPOST_DATA_DIR environment variable. A
// missing config file is fine; a malformed one is an error.
func Load() (Config, error) {
	dataDir := DefaultDataDir()
	if env := os.Getenv("OUTPOST_DATA_DIR"); env != "" {
		dataDir = env
	}

	cfg := Config{DataDir: dataDir}
	raw, err := os.ReadFile(filepath.Join(dataDir, "config.yaml"))
	if err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config.yaml: %w", err)
		}
		if fileCfg.DataDir != "" {
			cfg.DataDir = fileCfg.DataDir
		}
		cfg.ContentDir = fileCfg.ContentDir
		cfg.DBPath = fileCfg.DBPath
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config.yaml: %w", err)
	}

	return cfg, nil
}

// ResolvedDBPath returns the save database location.
func (c Config) ResolvedDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "outpost.db")
}

// DefaultDataDir returns the OS-appropriate data directory for outpost.
//
//   - macOS:   ~/Library/Application Support/outpost
//   - Linux:   $XDG_DATA_HOME/outpost (fallback ~/.local/share/outpost)
//   - Windows: %LOCALAPPDATA%\outpost (fallback %APPDATA%\outpost)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "outpost")
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "outpost")
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, "outpost")
		}
		return filepath.Join(home, "outpost")
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "outpost")
		}
		return filepath.Join(home, ".local", "share", "outpost")
	}
}
