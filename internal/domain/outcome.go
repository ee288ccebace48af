package domain

// EntryMode is the chosen entry strategy for one book.
type EntryMode int

const (
	// ModeManual enters the book through the standalone entry form.
	ModeManual EntryMode = iota

	// ModeSourceMatched links the book to an existing catalog work found by
	// searching the destination.
	ModeSourceMatched
)

// String returns a human-readable representation of the mode.
func (m EntryMode) String() string {
	if m == ModeSourceMatched {
		return "source-matched"
	}
	return "manual"
}

// OutcomeStatus is the terminal status of one book's import.
type OutcomeStatus int

const (
	StatusImported OutcomeStatus = iota
	StatusImportedWithWarnings
	StatusFailed
)

// String returns a human-readable representation of the status.
func (s OutcomeStatus) String() string {
	switch s {
	case StatusImported:
		return "imported"
	case StatusImportedWithWarnings:
		return "imported-with-warnings"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ImportOutcome records how one book's workflow ended. One is produced per
// processed book and accumulated into the ledger.
type ImportOutcome struct {
	BookID string

	// Mode is the entry strategy that was actually used.
	Mode EntryMode

	// CreatedID is the destination record id produced on submit, if any.
	CreatedID string

	Status OutcomeStatus

	// Warnings holds descriptions in the order they were observed, e.g.
	// "work id mismatch" or "ASIN mismatch, cannot correct".
	Warnings []string

	// Err is the terminal error when Status is StatusFailed.
	Err error
}

// Warn appends a warning and upgrades an imported status accordingly.
func (o *ImportOutcome) Warn(desc string) {
	o.Warnings = append(o.Warnings, desc)
	if o.Status == StatusImported {
		o.Status = StatusImportedWithWarnings
	}
}

// Fail marks the outcome failed with the given terminal error.
func (o *ImportOutcome) Fail(err error) {
	o.Status = StatusFailed
	o.Err = err
}
