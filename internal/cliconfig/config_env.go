package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SHELFPORT_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("input", os.Getenv("SHELFPORT_INPUT"), &cfg.InputPath)
	s.setString("supplement", os.Getenv("SHELFPORT_SUPPLEMENT"), &cfg.SupplementPath)
	s.setString("book-ids", os.Getenv("SHELFPORT_BOOK_IDS"), &cfg.BookIDs)
	s.setString("errors-file", os.Getenv("SHELFPORT_ERRORS_FILE"), &cfg.ErrorsFile)
	s.setString("session-file", os.Getenv("SHELFPORT_SESSION_FILE"), &cfg.SessionFile)
	s.setString("tag", os.Getenv("SHELFPORT_TAG"), &cfg.Tag)
	s.setString("search-by", os.Getenv("SHELFPORT_SEARCH_BY"), &cfg.SearchBy)
	s.setString("summary", os.Getenv("SHELFPORT_SUMMARY"), &cfg.Summary)
	s.setString("physical-summary", os.Getenv("SHELFPORT_PHYSICAL_SUMMARY"), &cfg.PhysicalSummary)
	s.setString("base-url", os.Getenv("SHELFPORT_BASE_URL"), &cfg.BaseURL)
	s.setString("browser-bin", os.Getenv("SHELFPORT_BROWSER_BIN"), &cfg.BrowserBin)
	s.setString("debugger-url", os.Getenv("SHELFPORT_DEBUGGER_URL"), &cfg.DebuggerURL)

	if err := s.setDuration("step-timeout", os.Getenv("SHELFPORT_STEP_TIMEOUT"), &cfg.StepTimeout); err != nil {
		return err
	}
	if err := s.setDuration("pacing", os.Getenv("SHELFPORT_PACING"), &cfg.Pacing); err != nil {
		return err
	}

	if err := s.setIntFromString("verbose", os.Getenv("SHELFPORT_VERBOSE"), &cfg.Verbose); err != nil {
		return err
	}

	s.setBoolFromString("no-source", os.Getenv("SHELFPORT_NO_SOURCE"), &cfg.NoSourceSearch)
	s.setBoolFromString("no-venue-search", os.Getenv("SHELFPORT_NO_VENUE_SEARCH"), &cfg.NoVenueSearch)
	s.setBoolFromString("private", os.Getenv("SHELFPORT_PRIVATE"), &cfg.Private)
	s.setBoolFromString("headless", os.Getenv("SHELFPORT_HEADLESS"), &cfg.Headless)

	return nil
}
