package resolve

import (
	"strings"

	"github.com/shelfport/shelfport/internal/domain"
)

// Dimensions validates the retained measurement set. Each value must be
// "<number> <unit>" with a unit the destination understands; a set with an
// unknown unit is dropped (marked absent) so the destination stays blank
// instead of receiving a value under the wrong unit.
func Dimensions(rec *domain.BookRecord) *domain.BookRecord {
	f := rec.Get(domain.AttrDimensions)
	if f.Confidence == domain.ConfidenceAbsent {
		return rec
	}
	dims, ok := f.Value.(domain.Dimensions)
	if !ok {
		return rec
	}
	for _, d := range []string{dims.Height, dims.Length, dims.Thickness} {
		if d == "" {
			continue
		}
		if _, _, ok := DimensionUnit(d); !ok {
			cp := rec.Clone()
			cp.Set(domain.AttrDimensions, domain.Absent())
			return cp
		}
	}
	return rec
}

// DimensionUnit splits one dimension literal into its number and the
// destination's unit selector value. Known units are inches and centimeters.
func DimensionUnit(dim string) (num, unitValue string, ok bool) {
	parts := strings.Fields(dim)
	if len(parts) != 2 {
		return "", "", false
	}
	switch parts[1] {
	case "inch", "inches":
		return parts[0], "0", true
	case "cm":
		return parts[0], "1", true
	}
	return "", "", false
}

// WeightUnit splits one weight literal into its number and the destination's
// unit selector value. Known units are pounds and kilograms.
func WeightUnit(w string) (num, unitValue string, ok bool) {
	parts := strings.Fields(w)
	if len(parts) != 2 {
		return "", "", false
	}
	switch parts[1] {
	case "pound", "pounds":
		return parts[0], "0", true
	case "kg":
		return parts[0], "1", true
	}
	return "", "", false
}
