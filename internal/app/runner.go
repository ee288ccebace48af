// Package app wires the import pipeline together and drives the sequential
// run loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/ledger"
	"github.com/shelfport/shelfport/internal/ports"
	"github.com/shelfport/shelfport/internal/record"
	"github.com/shelfport/shelfport/internal/workflow"
)

// RunnerConfig contains configuration for the run loop.
type RunnerConfig struct {
	// InputPath is the primary export file.
	InputPath string

	// SupplementPath is the optional supplementary export file.
	SupplementPath string

	// BookIDs restricts the run to these ids when non-empty.
	BookIDs []string

	// ErrorsFile receives failed book ids, one per line, written as each
	// failure happens.
	ErrorsFile string

	// Pacing is the delay between consecutive books.
	Pacing time.Duration
}

// DefaultPacing is the delay between books unless configured otherwise.
const DefaultPacing = time.Second

// Runner processes the export one book at a time through the workflow.
type Runner struct {
	config RunnerConfig
	driver ports.Driver
	flow   *workflow.Workflow
	logger ports.Logger

	ledger *ledger.Ledger

	// pacing holds the current inter-book delay in nanoseconds. It is
	// atomic so a config watcher can adjust it mid-run.
	pacing atomic.Int64
}

// NewRunner creates a runner with the given dependencies.
func NewRunner(config RunnerConfig, driver ports.Driver, flow *workflow.Workflow, logger ports.Logger) *Runner {
	r := &Runner{
		config: config,
		driver: driver,
		flow:   flow,
		logger: logger,
		ledger: ledger.New(),
	}
	if config.Pacing <= 0 {
		config.Pacing = DefaultPacing
	}
	r.pacing.Store(int64(config.Pacing))
	return r
}

// SetPacing adjusts the inter-book delay. Safe to call while Run is active.
func (r *Runner) SetPacing(d time.Duration) {
	if d < 0 {
		d = 0
	}
	r.pacing.Store(int64(d))
	r.logger.Info("pacing updated", ports.String("pacing", d.String()))
}

// Pacing returns the current inter-book delay.
func (r *Runner) Pacing() time.Duration {
	return time.Duration(r.pacing.Load())
}

// Ledger exposes the run's outcome ledger.
func (r *Runner) Ledger() *ledger.Ledger {
	return r.ledger
}

// Run loads the exports, verifies the session, and processes every selected
// book in export order. A failed book never stops the run; cancellation
// does, after the current book finishes.
func (r *Runner) Run(ctx context.Context) error {
	records, err := r.loadRecords()
	if err != nil {
		return err
	}

	loggedIn, err := r.driver.LoggedIn(ctx)
	if err != nil {
		return fmt.Errorf("session check: %w", err)
	}
	if !loggedIn {
		return domain.ErrNotLoggedIn
	}

	var errFile *ledger.ErrorsFile
	if r.config.ErrorsFile != "" {
		errFile, err = ledger.OpenErrorsFile(r.config.ErrorsFile)
		if err != nil {
			return err
		}
		defer errFile.Close()
	}

	supplements, err := r.loadSupplements()
	if err != nil {
		return err
	}

	runErr := r.process(ctx, records, supplements, errFile)

	summary := r.ledger.Summarize()
	r.logger.Info(summary.String(),
		ports.String("run_id", r.ledger.RunID()),
		ports.Int("imported", summary.Imported),
		ports.Int("failed", summary.Failed),
	)
	return runErr
}

// process runs every record through the workflow. It returns ErrInterrupted
// on cancellation and ErrSessionLost when the session dies mid-run; a failed
// book by itself never stops the loop.
func (r *Runner) process(ctx context.Context, records []record.RawRecord, supplements map[string]record.Supplement, errFile *ledger.ErrorsFile) error {
	for i, raw := range records {
		select {
		case <-ctx.Done():
			return domain.ErrInterrupted
		default:
		}

		outcome := r.processOne(ctx, raw, supplements)
		r.ledger.Record(outcome.BookID, outcome)
		if outcome.Status == domain.StatusFailed {
			r.logger.Error("book failed",
				ports.String("book_id", outcome.BookID),
				ports.Err(outcome.Err),
			)
			if errFile != nil {
				if err := errFile.Append(outcome.BookID); err != nil {
					r.logger.Warn("failed to record error id", ports.Err(err))
				}
			}
			if err := r.checkSession(ctx, outcome.Err); err != nil {
				return err
			}
		} else {
			r.logger.Info("book imported",
				ports.String("book_id", outcome.BookID),
				ports.String("created_id", outcome.CreatedID),
				ports.String("mode", outcome.Mode.String()),
				ports.Int("warnings", len(outcome.Warnings)),
			)
			for _, w := range outcome.Warnings {
				r.logger.Warn(w, ports.String("book_id", outcome.BookID))
			}
		}

		if i == len(records)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return domain.ErrInterrupted
		case <-time.After(time.Duration(r.pacing.Load())):
		}
	}
	return nil
}

// checkSession distinguishes a one-off book failure from a dead session.
// Only driver-level failures warrant the extra round trip.
func (r *Runner) checkSession(ctx context.Context, cause error) error {
	var interaction *domain.DriverInteractionError
	if !errors.As(cause, &interaction) {
		return nil
	}
	loggedIn, err := r.driver.LoggedIn(ctx)
	if err != nil || !loggedIn {
		return fmt.Errorf("%w: after %v", domain.ErrSessionLost, cause)
	}
	return nil
}

// processOne normalizes, merges, and imports a single book. All failure
// paths collapse into a failed outcome so the loop can continue.
func (r *Runner) processOne(ctx context.Context, raw record.RawRecord, supplements map[string]record.Supplement) domain.ImportOutcome {
	rec, err := record.Normalize(raw)
	if err != nil {
		out := domain.ImportOutcome{BookID: raw.ID, Status: domain.StatusFailed}
		out.Fail(err)
		return out
	}
	if sup, ok := supplements[rec.ID]; ok {
		rec = record.Merge(rec, sup)
	}
	return r.flow.Run(ctx, rec)
}

// loadRecords parses the primary export and applies the id restriction.
func (r *Runner) loadRecords() ([]record.RawRecord, error) {
	f, err := os.Open(r.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, err := record.ParsePrimary(f)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	r.logger.Info("loaded export",
		ports.String("path", r.config.InputPath),
		ports.Int("books", len(records)),
	)

	if len(r.config.BookIDs) == 0 {
		return records, nil
	}
	selected, missing := ledger.FilterTo(records, r.config.BookIDs)
	for _, id := range missing {
		r.logger.Warn("book id not in export", ports.String("book_id", id))
	}
	if len(selected) == 0 {
		return nil, errors.New("none of the requested book ids are in the export")
	}
	return selected, nil
}

func (r *Runner) loadSupplements() (map[string]record.Supplement, error) {
	if r.config.SupplementPath == "" {
		return nil, nil
	}
	f, err := os.Open(r.config.SupplementPath)
	if err != nil {
		return nil, fmt.Errorf("open supplement: %w", err)
	}
	defer f.Close()

	supplements, err := record.ParseSupplementary(f)
	if err != nil {
		return nil, fmt.Errorf("parse supplement: %w", err)
	}
	r.logger.Info("loaded supplement",
		ports.String("path", r.config.SupplementPath),
		ports.Int("books", len(supplements)),
	)
	return supplements, nil
}
