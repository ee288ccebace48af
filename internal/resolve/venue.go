package resolve

import "github.com/shelfport/shelfport/internal/domain"

// Venue applies the venue selection policy to search results obtained by the
// workflow. With search disabled or no from-where value, nothing changes.
// The first-ranked candidate wins when any are returned; otherwise the
// from-where text falls back to free text, marked inferred/autogenerated so
// the operator can audit which locations were never matched to a venue.
func Venue(cfg Config, rec *domain.BookRecord, candidates []domain.VenueCandidate) *domain.BookRecord {
	name := rec.Str(domain.AttrFromWhere)
	if name == "" {
		return rec
	}
	cp := rec.Clone()
	if !cfg.VenueSearch || len(candidates) == 0 {
		cp.Set(domain.AttrVenue, domain.Inferred(name, domain.OriginAutogenerated))
		return cp
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Rank < best.Rank {
			best = c
		}
	}
	cp.Set(domain.AttrVenue, domain.Confirmed(best, rec.Get(domain.AttrFromWhere).Origin))
	return cp
}
