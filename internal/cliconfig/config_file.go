package cliconfig

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Input           string `toml:"input"`
	Supplement      string `toml:"supplement"`
	BookIDs         string `toml:"book_ids"`
	ErrorsFile      string `toml:"errors_file"`
	SessionFile     string `toml:"session_file"`
	Tag             string `toml:"tag"`
	SearchBy        string `toml:"search_by"`
	NoSourceSearch  *bool  `toml:"no_source_search"`
	NoVenueSearch   *bool  `toml:"no_venue_search"`
	Summary         string `toml:"summary"`
	PhysicalSummary string `toml:"physical_summary"`
	Private         *bool  `toml:"private"`
	StepTimeout     string `toml:"step_timeout"`
	Pacing          string `toml:"pacing"`
	Verbose         int    `toml:"verbose"`
	BaseURL         string `toml:"base_url"`
	Headless        *bool  `toml:"headless"`
	BrowserBin      string `toml:"browser_bin"`
	DebuggerURL     string `toml:"debugger_url"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.shelfport/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".shelfport", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("input", fc.Input, &cfg.InputPath)
	s.setString("supplement", fc.Supplement, &cfg.SupplementPath)
	s.setString("book-ids", fc.BookIDs, &cfg.BookIDs)
	s.setString("errors-file", fc.ErrorsFile, &cfg.ErrorsFile)
	s.setString("session-file", fc.SessionFile, &cfg.SessionFile)
	s.setString("tag", fc.Tag, &cfg.Tag)
	s.setString("search-by", fc.SearchBy, &cfg.SearchBy)
	s.setString("summary", fc.Summary, &cfg.Summary)
	s.setString("physical-summary", fc.PhysicalSummary, &cfg.PhysicalSummary)
	s.setString("base-url", fc.BaseURL, &cfg.BaseURL)
	s.setString("browser-bin", fc.BrowserBin, &cfg.BrowserBin)
	s.setString("debugger-url", fc.DebuggerURL, &cfg.DebuggerURL)

	if err := s.setDuration("step-timeout", fc.StepTimeout, &cfg.StepTimeout); err != nil {
		return err
	}
	if err := s.setDuration("pacing", fc.Pacing, &cfg.Pacing); err != nil {
		return err
	}

	s.setInt("verbose", fc.Verbose, &cfg.Verbose)

	s.setBool("no-source", fc.NoSourceSearch, &cfg.NoSourceSearch)
	s.setBool("no-venue-search", fc.NoVenueSearch, &cfg.NoVenueSearch)
	s.setBool("private", fc.Private, &cfg.Private)
	s.setBool("headless", fc.Headless, &cfg.Headless)

	return nil
}

// ReloadPacing re-reads only the pacing setting from the config file. The
// run-time watcher uses it; everything else is fixed for the run.
func ReloadPacing(path string) (time.Duration, error) {
	fc, err := LoadFileConfig(path)
	if err != nil {
		return 0, err
	}
	if fc.Pacing == "" {
		return DefaultConfig().Pacing, nil
	}
	return time.ParseDuration(fc.Pacing)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
