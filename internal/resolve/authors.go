package resolve

import "github.com/shelfport/shelfport/internal/domain"

// AuthorOrder reconciles author ordering. The supplementary export is the
// only authority on order; when it supplied the list the record keeps it
// confirmed. A list that came from the primary export alone is kept as-is
// but downgraded to inferred, since the primary export does not guarantee
// author-order fidelity.
func AuthorOrder(rec *domain.BookRecord) *domain.BookRecord {
	f := rec.Get(domain.AttrAuthors)
	if f.Confidence == domain.ConfidenceAbsent || f.Origin == domain.OriginSupplementaryExport {
		return rec
	}
	cp := rec.Clone()
	cp.Set(domain.AttrAuthors, domain.Field{
		Value:      f.Value,
		Confidence: domain.ConfidenceInferred,
		Origin:     f.Origin,
	})
	return cp
}
