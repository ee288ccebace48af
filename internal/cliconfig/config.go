// Package cliconfig loads and layers the CLI configuration: defaults, then
// the config file, then SHELFPORT_* environment variables, then flags.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shelfport/shelfport/internal/strategy"
)

// Summary policy values for the summary and physical description fields.
const (
	SummaryAuto = "auto"
	SummaryJSON = "json"
)

// Config holds CLI configuration for shelfport.
type Config struct {
	// InputPath is the primary JSON export to import.
	InputPath string

	// SupplementPath is the optional supplementary JSON export.
	SupplementPath string

	// BookIDs lists the ids to import, or "@path" to read them from a
	// file. Empty means the whole export.
	BookIDs string

	ErrorsFile  string
	SessionFile string

	Tag string

	// SearchBy is the identifier priority for catalog searches, a comma or
	// whitespace separated list. Empty means the built-in order.
	SearchBy string

	// NoSourceSearch forces manual entry for every book.
	NoSourceSearch bool

	// NoVenueSearch skips the venue directory and always enters free text.
	NoVenueSearch bool

	// Summary and PhysicalSummary choose between the destination's
	// auto-generated value and the export's.
	Summary         string
	PhysicalSummary string

	Private bool

	StepTimeout time.Duration
	Pacing      time.Duration

	// Verbose is the -v count: 0 info, 1 debug, 2+ trace.
	Verbose int

	// Browser settings.
	BaseURL     string
	Headless    bool
	BrowserBin  string
	DebuggerURL string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SessionFile:     defaultSessionPath(),
		Summary:         SummaryAuto,
		PhysicalSummary: SummaryAuto,
		StepTimeout:     30 * time.Second,
		Pacing:          time.Second,
		BaseURL:         "https://www.librarything.com",
	}
}

func defaultSessionPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".shelfport", "session.json")
	}
	return "session.json"
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input file is required")
	}
	if _, err := strategy.ParseSearchBy(c.SearchBy); err != nil {
		return fmt.Errorf("search-by: %w (valid: %v)", err, strategy.DefaultSearchBy)
	}
	if err := validPolicy("summary", c.Summary); err != nil {
		return err
	}
	if err := validPolicy("physical-summary", c.PhysicalSummary); err != nil {
		return err
	}
	if c.StepTimeout <= 0 {
		return fmt.Errorf("step timeout must be positive")
	}
	if c.Pacing < 0 {
		return fmt.Errorf("pacing must not be negative")
	}
	return nil
}

func validPolicy(name, value string) error {
	if value != SummaryAuto && value != SummaryJSON {
		return fmt.Errorf("%s must be %q or %q", name, SummaryAuto, SummaryJSON)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
