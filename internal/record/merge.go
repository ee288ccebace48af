package record

import "github.com/shelfport/shelfport/internal/domain"

// Merge combines a normalized record with its supplementary detail record.
// For every attribute the supplement can provide, the supplementary value
// overrides the primary one and is marked confirmed/supplementary-export; an
// attribute the supplement did not collect keeps the primary value and its
// confidence unchanged. Each attribute has exactly one authoritative source,
// so the merge is total and idempotent.
//
// The input record is not mutated; the merged clone is returned.
func Merge(rec *domain.BookRecord, sup Supplement) *domain.BookRecord {
	out := rec.Clone()

	if len(sup.SecondaryAuthors) > 0 {
		authors := primaryAuthor(rec)
		for _, a := range sup.SecondaryAuthors {
			authors = append(authors, domain.Author{LastFirst: a.LastFirst, Role: a.Role})
		}
		out.Set(domain.AttrAuthors, domain.Confirmed(authors, domain.OriginSupplementaryExport))
	}

	if len(sup.Languages) > 0 {
		langs, _ := rec.Get(domain.AttrLanguages).Value.(domain.Languages)
		langs.Names = append([]string(nil), sup.Languages...)
		out.Set(domain.AttrLanguages, domain.Confirmed(langs, domain.OriginSupplementaryExport))
	}

	if len(sup.ReadingDates) > 0 {
		history := make([]domain.ReadingDates, 0, len(sup.ReadingDates))
		for _, d := range sup.ReadingDates {
			history = append(history, domain.ReadingDates{Started: d.Started, Finished: d.Finished})
		}
		out.Set(domain.AttrReadingDates, domain.Confirmed(history, domain.OriginSupplementaryExport))
	}

	if sup.Lexile != "" {
		out.Set(domain.AttrLexile, domain.Confirmed(sup.Lexile, domain.OriginSupplementaryExport))
	}
	if sup.Dewey != "" {
		out.Set(domain.AttrDewey, domain.Confirmed(sup.Dewey, domain.OriginSupplementaryExport))
	}
	if sup.Cover != "" {
		out.Set(domain.AttrCover, domain.Confirmed(sup.Cover, domain.OriginSupplementaryExport))
	}

	if sup.SummaryAuto != nil {
		out.Set(domain.AttrSummaryAuto, domain.Confirmed(*sup.SummaryAuto, domain.OriginSupplementaryExport))
	}
	if sup.PhysicalAuto != nil {
		out.Set(domain.AttrPhysicalAuto, domain.Confirmed(*sup.PhysicalAuto, domain.OriginSupplementaryExport))
	}
	if sup.VenueConfirmed != nil {
		out.Set(domain.AttrVenueConfirmed, domain.Confirmed(*sup.VenueConfirmed, domain.OriginSupplementaryExport))
	}

	return out
}

// primaryAuthor returns the record's first credited author as a one-element
// slice, or nil. The supplement only collects authors beyond the first.
func primaryAuthor(rec *domain.BookRecord) []domain.Author {
	authors, _ := rec.Get(domain.AttrAuthors).Value.([]domain.Author)
	if len(authors) == 0 {
		return nil
	}
	return []domain.Author{authors[0]}
}
