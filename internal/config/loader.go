package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".skillhound"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .skillhound configuration file.
// Every field is optional; absent values keep their defaults.
type File struct {
	// Board is the base URL of the job-listing search engine.
	Board string `yaml:"board,omitempty"`

	// DBDir overrides the database directory.
	DBDir string `yaml:"dbDir,omitempty"`

	// MaxPages overrides the pagination cap per crawl.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Workers overrides the scoring worker count.
	Workers int `yaml:"workers,omitempty"`

	// Timeout overrides the per-request timeout, e.g. "45s".
	Timeout string `yaml:"timeout,omitempty"`

	// CrawlDelay overrides the politeness delay, e.g. "2s".
	CrawlDelay string `yaml:"crawlDelay,omitempty"`

	// Port overrides the HTTP API port.
	Port int `yaml:"port,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this based on whether the path was explicitly specified
// by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .skillhound in the current directory
//  3. Look for .skillhound in the user's home directory
//
// Returns the path to the configuration file if found, or empty string
// if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Apply overlays file values onto a Config. Zero values in the file are
// skipped so flags and defaults survive.
func (cf *File) Apply(cfg *Config) {
	if cf.Board != "" {
		cfg.BoardURL = cf.Board
	}
	if cf.DBDir != "" {
		cfg.DBDir = cf.DBDir
	}
	if cf.MaxPages > 0 {
		cfg.MaxPages = cf.MaxPages
	}
	if cf.Workers > 0 {
		cfg.Workers = cf.Workers
	}
	if cf.Port > 0 {
		cfg.ServerPort = cf.Port
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.Timeout != "" {
		if d, err := time.ParseDuration(cf.Timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if cf.CrawlDelay != "" {
		if d, err := time.ParseDuration(cf.CrawlDelay); err == nil && d >= 0 {
			cfg.CrawlDelay = d
		}
	}
}
