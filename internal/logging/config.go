// Package logging provides structured file logging for repokit.
package logging

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/repokit/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Enabled  bool
	Level    string
	MaxFiles int
	// Dir is where log files are written; empty selects LogDir's fallback.
	Dir string
	// Command is the sub-command being dispatched.
	Command string
	PID     int
}

// DefaultConfig returns a disabled Config.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		MaxFiles: 10,
		Command:  filepath.Base(os.Args[0]),
		PID:      os.Getpid(),
	}
}

// FromConfig derives a logging Config from the resolved repokit config.
func FromConfig(cfg *config.Config, command string) Config {
	lc := DefaultConfig()
	lc.Enabled = cfg.LoggingEnabled
	lc.Level = cfg.LoggingLevel
	if cfg.Debug {
		lc.Level = "debug"
	}
	lc.MaxFiles = cfg.LoggingMaxFiles
	if cfg.StateDir != "" {
		lc.Dir = filepath.Join(cfg.StateDir, "logs")
	}
	if command != "" {
		lc.Command = command
	}
	return lc
}

// LogDir returns dir when it is writable, otherwise a directory under the
// system temp dir.
func LogDir(dir string) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err == nil && canWrite(dir) {
			return dir, nil
		}
	}
	fallback := filepath.Join(os.TempDir(), "repokit", "logs")
	if err := os.MkdirAll(fallback, 0700); err != nil {
		return "", err
	}
	return fallback, nil
}

func canWrite(dir string) bool {
	tmp := filepath.Join(dir, ".write_test")
	f, err := os.Create(tmp)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmp)
	return true
}
