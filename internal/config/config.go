package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable codewalk settings.
type Config struct {
	Editor         string `json:"editor"`          // override $EDITOR discovery
	ExportDir      string `json:"export_dir"`      // where exported lessons land
	ExportFormat   string `json:"export_format"`   // "markdown" | "json"
	ExcerptContext int    `json:"excerpt_context"` // unmarked lines around each range, <0 = unset
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		ExportDir:      ".",
		ExportFormat:   "markdown",
		ExcerptContext: 3,
	}
}

// LoadGlobal reads ~/.config/codewalk/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "codewalk", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .codewalkrc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".codewalkrc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	cfg := Config{ExcerptContext: -1}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults. A negative ExcerptContext
// counts as unset.
func Merge(global, project *Config) Config {
	result := Defaults()

	// Apply global values over defaults.
	if global != nil {
		if global.Editor != "" {
			result.Editor = global.Editor
		}
		if global.ExportDir != "" {
			result.ExportDir = global.ExportDir
		}
		if global.ExportFormat != "" {
			result.ExportFormat = global.ExportFormat
		}
		if global.ExcerptContext >= 0 {
			result.ExcerptContext = global.ExcerptContext
		}
	}

	// Apply project values over global.
	if project != nil {
		if project.Editor != "" {
			result.Editor = project.Editor
		}
		if project.ExportDir != "" {
			result.ExportDir = project.ExportDir
		}
		if project.ExportFormat != "" {
			result.ExportFormat = project.ExportFormat
		}
		if project.ExcerptContext >= 0 {
			result.ExcerptContext = project.ExcerptContext
		}
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
