package resolve

import (
	"strings"

	"github.com/shelfport/shelfport/internal/domain"
)

// Weights splits the semicolon-separated weight values and validates each
// one the same way Dimensions does: an unknown unit drops the whole set
// rather than entering a value under the wrong unit selector.
func Weights(rec *domain.BookRecord) *domain.BookRecord {
	f := rec.Get(domain.AttrWeights)
	if f.Confidence == domain.ConfidenceAbsent {
		return rec
	}
	raw, _ := f.Value.(string)
	var out []string
	for _, part := range strings.Split(raw, ";") {
		w := strings.TrimSpace(part)
		if w == "" {
			continue
		}
		if _, _, ok := WeightUnit(w); !ok {
			cp := rec.Clone()
			cp.Set(domain.AttrWeights, domain.Absent())
			return cp
		}
		out = append(out, w)
	}
	cp := rec.Clone()
	if len(out) == 0 {
		cp.Set(domain.AttrWeights, domain.Absent())
		return cp
	}
	cp.Set(domain.AttrWeights, domain.Field{Value: out, Confidence: f.Confidence, Origin: f.Origin})
	return cp
}
