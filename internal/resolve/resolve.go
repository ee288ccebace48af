package resolve

import "github.com/shelfport/shelfport/internal/domain"

// FillPolicy decides what to do with a destination-generated text field when
// the supplementary export did not state its provenance.
type FillPolicy int

const (
	// FillBlank leaves the field blank so the destination regenerates it.
	FillBlank FillPolicy = iota

	// FillAlways supplies the exported text verbatim.
	FillAlways
)

// Config carries the run-wide resolution options. It is passed in explicitly
// so resolution behavior is reproducible without ambient state.
type Config struct {
	// VenueSearch enables searching the destination's venue directory for
	// the from-where value. When false the value is always entered free-text.
	VenueSearch bool

	SummaryPolicy  FillPolicy
	PhysicalPolicy FillPolicy
}

// Step is one resolver: it annotates specific attributes of a record and
// returns the annotated copy, leaving its input untouched.
type Step func(*domain.BookRecord) *domain.BookRecord

// Pipeline returns the resolver steps for the given configuration, in
// application order. Venue search is excluded; it runs inside the workflow.
func Pipeline(cfg Config) []Step {
	return []Step{
		Paginations,
		AuthorOrder,
		SummaryProvenance(cfg.SummaryPolicy),
		PhysicalProvenance(cfg.PhysicalPolicy),
		Dimensions,
		Weights,
		Barcode,
	}
}

// Apply runs every step over the record in order.
func Apply(rec *domain.BookRecord, steps []Step) *domain.BookRecord {
	for _, step := range steps {
		rec = step(rec)
	}
	return rec
}
