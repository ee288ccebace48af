// Package strategy decides, per book, between source-matched and manual
// entry, and picks the best catalog candidate when searching.
package strategy

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/ports"
)

// Config carries the run-wide strategy options.
type Config struct {
	// ForceManual bypasses catalog search entirely.
	ForceManual bool

	// SearchBy is the identifier preference order for catalog searches.
	// Valid entries: ean, upc, asin, lccn, oclc, isbn.
	SearchBy []string
}

// DefaultSearchBy is the identifier preference used when none is configured.
var DefaultSearchBy = []string{"ean", "upc", "asin", "lccn", "oclc", "isbn"}

var identifierAttrs = map[string]domain.Attr{
	"ean":  domain.AttrEAN,
	"upc":  domain.AttrUPC,
	"asin": domain.AttrASIN,
	"lccn": domain.AttrLCCN,
	"oclc": domain.AttrOCLC,
	"isbn": domain.AttrISBN,
}

// ValidIdentifier reports whether name is a recognized search identifier.
func ValidIdentifier(name string) bool {
	_, ok := identifierAttrs[name]
	return ok
}

// ParseSearchBy parses a comma or whitespace separated identifier priority
// list, lowercasing and validating each entry. An empty spec returns nil so
// the caller can fall back to DefaultSearchBy.
func ParseSearchBy(spec string) ([]string, error) {
	parts := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	var out []string
	for _, p := range parts {
		name := strings.ToLower(p)
		if !ValidIdentifier(name) {
			return nil, fmt.Errorf("invalid search identifier %q", p)
		}
		out = append(out, name)
	}
	return out, nil
}

// SearchFunc issues one catalog search. The workflow supplies it, backed by
// the automation driver.
type SearchFunc func(ctx context.Context, q ports.SearchQuery) ([]domain.SourceCandidate, error)

// Decision is the selected entry strategy for one book.
type Decision struct {
	Mode domain.EntryMode

	// Candidate is the catalog entry to link against in source-matched mode.
	Candidate *domain.SourceCandidate

	// Warnings surfaces non-fatal observations made during selection, e.g.
	// a work-id mismatch on the selected candidate. Never auto-corrected.
	Warnings []string
}

// Selector implements the per-book entry-mode decision.
type Selector struct {
	cfg Config
}

// NewSelector creates a Selector with the given configuration.
func NewSelector(cfg Config) *Selector {
	if len(cfg.SearchBy) == 0 {
		cfg.SearchBy = DefaultSearchBy
	}
	return &Selector{cfg: cfg}
}

// WillSearch reports whether Select would issue a catalog search for rec.
// Force-manual configuration, a manual-entry source, and a record with no
// searchable terms all answer false.
func (s *Selector) WillSearch(rec *domain.BookRecord) bool {
	if s.cfg.ForceManual {
		return false
	}
	source := rec.Str(domain.AttrSource)
	if source == "" || source == "manual entry" {
		return false
	}
	q := s.query(rec, source)
	return q.Value != "" || q.Title != ""
}

// Select picks the entry strategy for rec. A search returning zero candidates
// always falls back to manual entry; a search error propagates so the
// workflow can fail the book.
func (s *Selector) Select(ctx context.Context, rec *domain.BookRecord, search SearchFunc) (Decision, error) {
	if !s.WillSearch(rec) {
		return Decision{Mode: domain.ModeManual}, nil
	}

	candidates, err := search(ctx, s.query(rec, rec.Str(domain.AttrSource)))
	if err != nil {
		return Decision{}, err
	}
	if len(candidates) == 0 {
		return Decision{Mode: domain.ModeManual}, nil
	}

	best := Best(rec, candidates)
	d := Decision{Mode: domain.ModeSourceMatched, Candidate: &best}
	if best.WorkID != "" && rec.WorkID != "" && best.WorkID != rec.WorkID {
		d.Warnings = append(d.Warnings, fmt.Sprintf(
			"work id mismatch: candidate %s, source %s", best.WorkID, rec.WorkID))
	}
	return d, nil
}

// query builds the search terms: the first configured identifier with a
// value, falling back to title and primary author.
func (s *Selector) query(rec *domain.BookRecord, source string) ports.SearchQuery {
	q := ports.SearchQuery{Source: source, Title: rec.Title}
	if authors, _ := rec.Get(domain.AttrAuthors).Value.([]domain.Author); len(authors) > 0 {
		q.Author = authors[0].LastFirst
	}
	for _, name := range s.cfg.SearchBy {
		attr, ok := identifierAttrs[name]
		if !ok {
			continue
		}
		if v := rec.Str(attr); v != "" {
			q.Identifier = name
			q.Value = v
			break
		}
	}
	return q
}
