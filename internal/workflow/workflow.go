// Package workflow drives the multi-step entry sequence for one book through
// to completion or failure. It is the only package that talks to the
// automation driver.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/ports"
	"github.com/shelfport/shelfport/internal/resolve"
	"github.com/shelfport/shelfport/internal/strategy"
)

// State is the per-book workflow state.
type State int

const (
	StateStart State = iota
	StateSearching
	StateCandidateChosen
	StateFormFilling
	StateSubmitting
	StateVerifying
	StateDone
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateSearching:
		return "Searching"
	case StateCandidateChosen:
		return "CandidateChosen"
	case StateFormFilling:
		return "FormFilling"
	case StateSubmitting:
		return "Submitting"
	case StateVerifying:
		return "Verifying"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Config carries the run-wide workflow options.
type Config struct {
	Resolve  resolve.Config
	Strategy strategy.Config

	// Tag is appended to every imported book's tags when set.
	Tag string

	// ImportPrivate marks every imported book private.
	ImportPrivate bool

	// StepTimeout bounds each driver interaction. A timed-out step fails
	// the current book; there is no automatic retry.
	StepTimeout time.Duration
}

// DefaultStepTimeout bounds driver interactions when none is configured.
const DefaultStepTimeout = 30 * time.Second

// Workflow runs the entry sequence. One instance serves the whole run but
// each book passes through its own state sequence; the driver session is
// owned exclusively by this type.
type Workflow struct {
	cfg      Config
	driver   ports.Driver
	selector *strategy.Selector
	steps    []resolve.Step
	logger   ports.Logger
}

// New creates a workflow over the given driver.
func New(cfg Config, driver ports.Driver, logger ports.Logger) *Workflow {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = DefaultStepTimeout
	}
	return &Workflow{
		cfg:      cfg,
		driver:   driver,
		selector: strategy.NewSelector(cfg.Strategy),
		steps:    resolve.Pipeline(cfg.Resolve),
		logger:   logger,
	}
}

// Run processes one book to a terminal state and returns its outcome.
// Failures are terminal for this attempt; the caller records them and moves
// to the next book.
func (w *Workflow) Run(ctx context.Context, rec *domain.BookRecord) domain.ImportOutcome {
	outcome := domain.ImportOutcome{BookID: rec.ID, Mode: domain.ModeManual}
	state := StateStart

	rec = resolve.Apply(rec, w.steps)

	// Strategy selection; manual entry skips the Searching state entirely.
	if w.selector.WillSearch(rec) {
		state = w.transition(rec.ID, state, StateSearching)
	}
	decision, err := w.selector.Select(ctx, rec, w.search)
	if err != nil {
		w.transition(rec.ID, state, StateFailed)
		outcome.Fail(err)
		return outcome
	}
	outcome.Mode = decision.Mode
	for _, warn := range decision.Warnings {
		outcome.Warn(warn)
	}
	if decision.Mode == domain.ModeSourceMatched {
		state = w.transition(rec.ID, state, StateCandidateChosen)
	}

	// Venue resolution needs the driver, so it runs here rather than in the
	// pure resolver pipeline.
	rec, err = w.resolveVenue(ctx, rec)
	if err != nil {
		w.transition(rec.ID, state, StateFailed)
		outcome.Fail(err)
		return outcome
	}

	state = w.transition(rec.ID, state, StateFormFilling)
	if err := w.openForm(ctx, decision); err != nil {
		w.transition(rec.ID, state, StateFailed)
		outcome.Fail(err)
		return outcome
	}
	if err := w.fillForm(ctx, rec); err != nil {
		w.transition(rec.ID, state, StateFailed)
		outcome.Fail(err)
		return outcome
	}

	state = w.transition(rec.ID, state, StateSubmitting)
	createdID, err := w.submit(ctx)
	if err != nil {
		w.transition(rec.ID, state, StateFailed)
		outcome.Fail(err)
		return outcome
	}
	outcome.CreatedID = createdID

	state = w.transition(rec.ID, state, StateVerifying)
	warnings, err := w.verify(ctx, rec, createdID)
	if err != nil {
		w.transition(rec.ID, state, StateFailed)
		outcome.Fail(err)
		return outcome
	}
	for _, warn := range warnings {
		outcome.Warn(warn)
	}

	w.transition(rec.ID, state, StateDone)
	return outcome
}

func (w *Workflow) transition(bookID string, from, to State) State {
	w.logger.Debug("workflow transition",
		ports.String("book", bookID),
		ports.String("from", from.String()),
		ports.String("to", to.String()))
	return to
}

func (w *Workflow) search(ctx context.Context, q ports.SearchQuery) ([]domain.SourceCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.StepTimeout)
	defer cancel()
	candidates, err := w.driver.Search(ctx, q)
	if err != nil {
		return nil, &domain.DriverInteractionError{Op: "search", Err: err}
	}
	return candidates, nil
}

func (w *Workflow) resolveVenue(ctx context.Context, rec *domain.BookRecord) (*domain.BookRecord, error) {
	name := rec.Str(domain.AttrFromWhere)
	if name == "" {
		return rec, nil
	}
	var candidates []domain.VenueCandidate
	if w.cfg.Resolve.VenueSearch {
		vctx, cancel := context.WithTimeout(ctx, w.cfg.StepTimeout)
		defer cancel()
		found, err := w.driver.SearchVenue(vctx, name)
		if err != nil {
			return nil, &domain.DriverInteractionError{Op: "searchVenue", Err: err}
		}
		candidates = found
	}
	return resolve.Venue(w.cfg.Resolve, rec, candidates), nil
}

func (w *Workflow) openForm(ctx context.Context, d strategy.Decision) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.StepTimeout)
	defer cancel()
	if err := w.driver.OpenEntryForm(ctx, d.Mode, d.Candidate); err != nil {
		return &domain.DriverInteractionError{Op: "openEntryForm", Err: err}
	}
	return nil
}

func (w *Workflow) submit(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.StepTimeout)
	defer cancel()
	id, err := w.driver.Submit(ctx)
	if err != nil {
		var rejection *domain.DestinationRejection
		if errors.As(err, &rejection) {
			return "", rejection
		}
		return "", &domain.DriverInteractionError{Op: "submit", Err: err}
	}
	return id, nil
}
