package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/ports"
	"github.com/shelfport/shelfport/internal/resolve"
	"github.com/shelfport/shelfport/internal/strategy"
	"github.com/shelfport/shelfport/pkg/log"
)

// fakeDriver scripts every destination interaction so the workflow can run
// end to end without a browser.
type fakeDriver struct {
	candidates      []domain.SourceCandidate
	venues          []domain.VenueCandidate
	readback        map[string]string
	submitErr       error
	searchErr       error
	createdID       string
	openedMode      domain.EntryMode
	openedCandidate *domain.SourceCandidate
	fields          map[string]any
	fieldOrder      []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{createdID: "900", fields: make(map[string]any)}
}

func (f *fakeDriver) LoggedIn(context.Context) (bool, error) { return true, nil }

func (f *fakeDriver) Search(context.Context, ports.SearchQuery) ([]domain.SourceCandidate, error) {
	return f.candidates, f.searchErr
}

func (f *fakeDriver) SearchVenue(context.Context, string) ([]domain.VenueCandidate, error) {
	return f.venues, nil
}

func (f *fakeDriver) OpenEntryForm(_ context.Context, mode domain.EntryMode, c *domain.SourceCandidate) error {
	f.openedMode = mode
	f.openedCandidate = c
	return nil
}

func (f *fakeDriver) SetField(_ context.Context, name string, value any) error {
	f.fields[name] = value
	f.fieldOrder = append(f.fieldOrder, name)
	return nil
}

func (f *fakeDriver) Submit(context.Context) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.createdID, nil
}

func (f *fakeDriver) ReadBack(context.Context, string) (map[string]string, error) {
	if f.readback == nil {
		return map[string]string{}, nil
	}
	return f.readback, nil
}

func testRecord() *domain.BookRecord {
	rec := domain.NewBookRecord("1", "1001", "The Hobbit")
	rec.Set(domain.AttrSource, domain.Confirmed("Amazon.com", domain.OriginPrimaryExport))
	rec.Set(domain.AttrISBN, domain.Confirmed("9780261102217", domain.OriginPrimaryExport))
	rec.Set(domain.AttrPages, domain.Confirmed("xii;310", domain.OriginPrimaryExport))
	rec.Set(domain.AttrFromWhere, domain.Confirmed("Strand Bookstore", domain.OriginPrimaryExport))
	return rec
}

func newTestWorkflow(driver ports.Driver) *Workflow {
	return New(Config{
		Resolve:  resolve.Config{VenueSearch: true},
		Strategy: strategy.Config{},
		Tag:      "imported",
	}, driver, log.NewNoopLogger())
}

func TestRunSourceMatchedCleanImport(t *testing.T) {
	driver := newFakeDriver()
	driver.candidates = []domain.SourceCandidate{
		{CandidateID: "/work/1001/book/900", WorkID: "1001", Title: "The Hobbit", Rank: 0},
	}
	driver.venues = []domain.VenueCandidate{{Name: "Strand Bookstore", VenueID: "77", Rank: 0}}
	driver.readback = map[string]string{"workcode": "1001"}

	outcome := newTestWorkflow(driver).Run(context.Background(), testRecord())

	if outcome.Status != domain.StatusImported {
		t.Fatalf("status = %v (err %v), want imported", outcome.Status, outcome.Err)
	}
	if outcome.Mode != domain.ModeSourceMatched {
		t.Errorf("mode = %v", outcome.Mode)
	}
	if outcome.CreatedID != "900" {
		t.Errorf("created id = %q", outcome.CreatedID)
	}
	if len(outcome.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", outcome.Warnings)
	}
	if driver.openedMode != domain.ModeSourceMatched || driver.openedCandidate == nil {
		t.Error("entry form not opened against the candidate")
	}

	// Resolved values reach the form.
	pags, _ := driver.fields["paginations"].([]domain.Pagination)
	if len(pags) != 2 || pags[0].Kind != domain.PaginationRoman || pags[1].Kind != domain.PaginationNumeric {
		t.Errorf("paginations = %v", pags)
	}
	venue, ok := driver.fields["venue"].(domain.VenueCandidate)
	if !ok || venue.VenueID != "77" {
		t.Errorf("venue = %v", driver.fields["venue"])
	}
	tags, _ := driver.fields["tags"].([]string)
	if len(tags) != 1 || tags[0] != "imported" {
		t.Errorf("tags = %v", tags)
	}
	if driver.fields["barcode"] != "1" {
		t.Errorf("barcode = %v, want the source book id", driver.fields["barcode"])
	}
}

func TestRunTitleBeforeEverythingElse(t *testing.T) {
	driver := newFakeDriver()
	newTestWorkflow(driver).Run(context.Background(), testRecord())

	if len(driver.fieldOrder) == 0 || driver.fieldOrder[0] != "title" {
		t.Errorf("field order = %v, want title first", driver.fieldOrder)
	}
}

func TestRunIdentifierMismatchImportsWithWarnings(t *testing.T) {
	driver := newFakeDriver()
	driver.readback = map[string]string{"asin": "B000EXAMPLE"}

	rec := testRecord()
	rec.Set(domain.AttrASIN, domain.Confirmed("B000ORIGINAL", domain.OriginPrimaryExport))

	outcome := newTestWorkflow(driver).Run(context.Background(), rec)

	if outcome.Status != domain.StatusImportedWithWarnings {
		t.Fatalf("status = %v, want imported-with-warnings", outcome.Status)
	}
	if len(outcome.Warnings) == 0 {
		t.Fatal("expected a mismatch warning")
	}
	found := false
	for _, w := range outcome.Warnings {
		if w == `ASIN mismatch, cannot correct: destination has "B000EXAMPLE", source has "B000ORIGINAL"` {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v", outcome.Warnings)
	}
}

func TestRunWorkIDMismatchWarns(t *testing.T) {
	driver := newFakeDriver()
	driver.candidates = []domain.SourceCandidate{
		{CandidateID: "/work/2002/book/900", WorkID: "2002", Title: "The Hobbit"},
	}
	driver.readback = map[string]string{"workcode": "2002"}

	outcome := newTestWorkflow(driver).Run(context.Background(), testRecord())

	if outcome.Status != domain.StatusImportedWithWarnings {
		t.Fatalf("status = %v, want imported-with-warnings", outcome.Status)
	}
}

func TestRunDriverErrorFailsBook(t *testing.T) {
	driver := newFakeDriver()
	driver.submitErr = errors.New("save button never enabled")

	outcome := newTestWorkflow(driver).Run(context.Background(), testRecord())

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("status = %v, want failed", outcome.Status)
	}
	var interaction *domain.DriverInteractionError
	if !errors.As(outcome.Err, &interaction) {
		t.Errorf("err = %v, want DriverInteractionError", outcome.Err)
	}
}

func TestRunRejectionPassesThrough(t *testing.T) {
	driver := newFakeDriver()
	driver.submitErr = &domain.DestinationRejection{Message: "title is required"}

	outcome := newTestWorkflow(driver).Run(context.Background(), testRecord())

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("status = %v, want failed", outcome.Status)
	}
	var rejection *domain.DestinationRejection
	if !errors.As(outcome.Err, &rejection) {
		t.Fatalf("err = %v, want DestinationRejection", outcome.Err)
	}
	if rejection.Message != "title is required" {
		t.Errorf("message = %q", rejection.Message)
	}
}

func TestRunSearchErrorFailsBook(t *testing.T) {
	driver := newFakeDriver()
	driver.searchErr = fmt.Errorf("results pane never rendered")

	outcome := newTestWorkflow(driver).Run(context.Background(), testRecord())

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("status = %v, want failed", outcome.Status)
	}
	if outcome.CreatedID != "" {
		t.Errorf("created id = %q for a failed book", outcome.CreatedID)
	}
}

func TestRunFillsEveryWeightRow(t *testing.T) {
	driver := newFakeDriver()
	rec := testRecord()
	rec.Set(domain.AttrWeights, domain.Confirmed("1.2 pounds; 0.5 kg", domain.OriginPrimaryExport))

	outcome := newTestWorkflow(driver).Run(context.Background(), rec)

	if outcome.Status != domain.StatusImported {
		t.Fatalf("status = %v (err %v), want imported", outcome.Status, outcome.Err)
	}
	ws, _ := driver.fields["weights"].([]string)
	if len(ws) != 2 || ws[0] != "1.2 pounds" || ws[1] != "0.5 kg" {
		t.Errorf("weights = %v, want both values", ws)
	}
}

func TestRunEntersOnlyMostRecentReadingDates(t *testing.T) {
	driver := newFakeDriver()
	rec := testRecord()
	rec.Set(domain.AttrReadingDates, domain.Confirmed([]domain.ReadingDates{
		{Started: "2021-03-01", Finished: "2021-03-20"},
		{Started: "2016-07-04", Finished: "2016-08-01"},
	}, domain.OriginSupplementaryExport))

	outcome := newTestWorkflow(driver).Run(context.Background(), rec)

	if outcome.Status != domain.StatusImported {
		t.Fatalf("status = %v (err %v), want imported", outcome.Status, outcome.Err)
	}
	rd, ok := driver.fields["reading_dates"].(domain.ReadingDates)
	if !ok {
		t.Fatalf("reading_dates = %T, want a single pair", driver.fields["reading_dates"])
	}
	if rd.Started != "2021-03-01" || rd.Finished != "2021-03-20" {
		t.Errorf("reading_dates = %+v, want the most recent pair", rd)
	}
}

// stateTrace collects transition targets from the workflow's debug logging.
type stateTrace struct {
	states []string
}

func (s *stateTrace) Debug(msg string, fields ...log.Field) {
	if msg != "workflow transition" {
		return
	}
	for _, f := range fields {
		if f.Key == "to" {
			if v, ok := f.Value.(string); ok {
				s.states = append(s.states, v)
			}
		}
	}
}

func (s *stateTrace) Info(string, ...log.Field)  {}
func (s *stateTrace) Warn(string, ...log.Field)  {}
func (s *stateTrace) Error(string, ...log.Field) {}

func (s *stateTrace) saw(state string) bool {
	for _, v := range s.states {
		if v == state {
			return true
		}
	}
	return false
}

func TestRunManualModeSkipsSearchingState(t *testing.T) {
	driver := newFakeDriver()
	trace := &stateTrace{}
	flow := New(Config{Strategy: strategy.Config{ForceManual: true}}, driver, trace)

	outcome := flow.Run(context.Background(), testRecord())

	if outcome.Status != domain.StatusImported {
		t.Fatalf("status = %v (err %v), want imported", outcome.Status, outcome.Err)
	}
	if trace.saw("Searching") {
		t.Errorf("states = %v, manual entry must go straight to form filling", trace.states)
	}
	if !trace.saw("FormFilling") {
		t.Errorf("states = %v, missing FormFilling", trace.states)
	}
}

func TestRunSourceMatchedPassesThroughSearching(t *testing.T) {
	driver := newFakeDriver()
	driver.candidates = []domain.SourceCandidate{
		{CandidateID: "/work/1001/book/900", WorkID: "1001", Title: "The Hobbit"},
	}
	trace := &stateTrace{}
	flow := New(Config{}, driver, trace)

	flow.Run(context.Background(), testRecord())

	for _, state := range []string{"Searching", "CandidateChosen", "FormFilling", "Done"} {
		if !trace.saw(state) {
			t.Errorf("states = %v, missing %s", trace.states, state)
		}
	}
}
