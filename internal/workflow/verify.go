package workflow

import (
	"context"
	"fmt"

	"github.com/shelfport/shelfport/internal/domain"
)

// identifierChecks maps the record attributes to the keys the driver's
// read-back exposes. These fields cannot be corrected through the entry
// workflow once set, so mismatches are surfaced as warnings only.
var identifierChecks = []struct {
	attr domain.Attr
	key  string
	name string
}{
	{domain.AttrASIN, "asin", "ASIN"},
	{domain.AttrLCCN, "lccn", "LCCN"},
	{domain.AttrEAN, "ean", "EAN"},
	{domain.AttrUPC, "upc", "UPC"},
	{domain.AttrOCLC, "oclc", "OCLC"},
}

// verify re-reads the created record and diffs its identifier fields against
// the source values. Every mismatch yields one warning; nothing is
// corrected.
func (w *Workflow) verify(ctx context.Context, rec *domain.BookRecord, createdID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.StepTimeout)
	defer cancel()
	readback, err := w.driver.ReadBack(ctx, createdID)
	if err != nil {
		return nil, &domain.DriverInteractionError{Op: "readBack", Err: err}
	}

	var warnings []string
	for _, check := range identifierChecks {
		expected := rec.Str(check.attr)
		actual := readback[check.key]
		switch {
		case expected == "" && actual == "":
			continue
		case expected == "":
			warnings = append(warnings, fmt.Sprintf(
				"%s mismatch, cannot correct: destination has %q, source has none", check.name, actual))
		case actual == "":
			warnings = append(warnings, fmt.Sprintf(
				"%s mismatch, cannot correct: destination has none, source has %q", check.name, expected))
		case expected != actual:
			warnings = append(warnings, fmt.Sprintf(
				"%s mismatch, cannot correct: destination has %q, source has %q", check.name, actual, expected))
		}
	}

	if workID := readback["workcode"]; workID != "" && rec.WorkID != "" && workID != rec.WorkID {
		warnings = append(warnings, fmt.Sprintf(
			"work id mismatch: destination has %s, source has %s", workID, rec.WorkID))
	}
	return warnings, nil
}
