// Package ledger accumulates per-book import outcomes for one run and
// produces the resumable failure list.
package ledger

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/shelfport/shelfport/internal/domain"
)

// Ledger is the only state shared across a whole run. It is append-only
// during processing and has a single writer, the run loop.
type Ledger struct {
	runID    string
	order    []string
	outcomes map[string]domain.ImportOutcome
}

// New creates an empty ledger with a fresh run identifier.
func New() *Ledger {
	return &Ledger{
		runID:    uuid.NewString(),
		outcomes: make(map[string]domain.ImportOutcome),
	}
}

// RunID returns the identifier stamped on this run's output.
func (l *Ledger) RunID() string { return l.runID }

// Record appends one book's outcome. Processing the same id twice in one run
// should not occur, but if it does the last write wins while the id keeps
// its original position.
func (l *Ledger) Record(bookID string, outcome domain.ImportOutcome) {
	if _, seen := l.outcomes[bookID]; !seen {
		l.order = append(l.order, bookID)
	}
	outcome.BookID = bookID
	l.outcomes[bookID] = outcome
}

// Outcome returns the recorded outcome for bookID.
func (l *Ledger) Outcome(bookID string) (domain.ImportOutcome, bool) {
	o, ok := l.outcomes[bookID]
	return o, ok
}

// Len returns the number of recorded outcomes.
func (l *Ledger) Len() int { return len(l.outcomes) }

// FailedIDs returns the ids whose outcome was failed, in processing order.
func (l *Ledger) FailedIDs() []string {
	var out []string
	for _, id := range l.order {
		if l.outcomes[id].Status == domain.StatusFailed {
			out = append(out, id)
		}
	}
	return out
}

// Summary aggregates the run for the final operator line.
type Summary struct {
	Imported int
	Warned   int
	Failed   int
}

// Total returns the number of processed books.
func (s Summary) Total() int { return s.Imported + s.Warned + s.Failed }

// String formats the summary the way the run log reports it.
func (s Summary) String() string {
	return fmt.Sprintf("%d imported, %d errors (%d total)",
		s.Imported+s.Warned, s.Failed, s.Total())
}

// Summarize tallies the recorded outcomes.
func (l *Ledger) Summarize() Summary {
	var s Summary
	for _, o := range l.outcomes {
		switch o.Status {
		case domain.StatusImported:
			s.Imported++
		case domain.StatusImportedWithWarnings:
			s.Warned++
		case domain.StatusFailed:
			s.Failed++
		}
	}
	return s
}

// Flush writes the failure-id list, one id per line, for a later focused
// re-run. Safe to call at any point; it reflects outcomes recorded so far.
func (l *Ledger) Flush(w io.Writer) error {
	for _, id := range l.FailedIDs() {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
