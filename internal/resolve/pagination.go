package resolve

import (
	"regexp"
	"strings"

	"github.com/shelfport/shelfport/internal/domain"
)

var (
	numericRe = regexp.MustCompile(`^[0-9]+$`)
	romanRe   = regexp.MustCompile(`^(?i)m*(cm|cd|d?c{0,3})(xc|xl|l?x{0,3})(ix|iv|v?i{0,3})$`)
)

// ClassifyPagination classifies one page-count literal. The export never
// states the type, so the result is always a guess: pure digits are numeric,
// a valid roman numeral is roman, anything else is other.
func ClassifyPagination(count string) domain.PaginationKind {
	if numericRe.MatchString(count) {
		return domain.PaginationNumeric
	}
	if count != "" && romanRe.MatchString(count) {
		return domain.PaginationRoman
	}
	return domain.PaginationOther
}

// Paginations splits the semicolon-separated page values and classifies each
// one. The result is always ConfidenceInferred since the type is guessed.
func Paginations(rec *domain.BookRecord) *domain.BookRecord {
	pages := rec.Str(domain.AttrPages)
	if pages == "" {
		return rec
	}
	var out []domain.Pagination
	for _, part := range strings.Split(pages, ";") {
		count := strings.TrimSpace(part)
		if count == "" {
			continue
		}
		out = append(out, domain.Pagination{Count: count, Kind: ClassifyPagination(count)})
	}
	cp := rec.Clone()
	if len(out) == 0 {
		cp.Set(domain.AttrPaginations, domain.Absent())
		return cp
	}
	cp.Set(domain.AttrPaginations, domain.Inferred(out, rec.Get(domain.AttrPages).Origin))
	return cp
}
