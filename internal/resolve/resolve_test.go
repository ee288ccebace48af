package resolve

import (
	"testing"

	"github.com/shelfport/shelfport/internal/domain"
)

func recordWith(attr domain.Attr, f domain.Field) *domain.BookRecord {
	rec := domain.NewBookRecord("42", "", "x")
	rec.Set(attr, f)
	return rec
}

func TestSummaryProvenance(t *testing.T) {
	const text = "A hobbit finds a ring."

	tests := []struct {
		name       string
		flag       *bool
		policy     FillPolicy
		wantFilled bool
	}{
		{"flag says autogenerated", boolPtr(true), FillAlways, false},
		{"flag says user text", boolPtr(false), FillBlank, true},
		{"no flag, blank policy", nil, FillBlank, false},
		{"no flag, always policy", nil, FillAlways, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordWith(domain.AttrSummary, domain.Confirmed(text, domain.OriginPrimaryExport))
			if tt.flag != nil {
				rec.Set(domain.AttrSummaryAuto, domain.Confirmed(*tt.flag, domain.OriginSupplementaryExport))
			}

			out := SummaryProvenance(tt.policy)(rec)

			if got := out.Has(domain.AttrSummary); got != tt.wantFilled {
				t.Errorf("summary filled = %v, want %v", got, tt.wantFilled)
			}
			if tt.wantFilled && out.Str(domain.AttrSummary) != text {
				t.Errorf("summary = %q", out.Str(domain.AttrSummary))
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestDimensionsDropsUnknownUnit(t *testing.T) {
	rec := recordWith(domain.AttrDimensions, domain.Confirmed(domain.Dimensions{
		Height: "7.8 inches",
		Length: "20 furlongs",
	}, domain.OriginPrimaryExport))

	out := Dimensions(rec)
	if out.Has(domain.AttrDimensions) {
		t.Error("set with unknown unit should be dropped")
	}

	rec = recordWith(domain.AttrDimensions, domain.Confirmed(domain.Dimensions{
		Height:    "7.8 inches",
		Thickness: "2.5 cm",
	}, domain.OriginPrimaryExport))

	out = Dimensions(rec)
	if !out.Has(domain.AttrDimensions) {
		t.Error("set with known units should be kept")
	}
}

func TestWeightsDropsUnknownUnit(t *testing.T) {
	rec := recordWith(domain.AttrWeights, domain.Confirmed("3 stone", domain.OriginPrimaryExport))
	if out := Weights(rec); out.Has(domain.AttrWeights) {
		t.Error("unknown weight unit should be dropped")
	}

	rec = recordWith(domain.AttrWeights, domain.Confirmed("0.6 pounds", domain.OriginPrimaryExport))
	out := Weights(rec)
	ws, _ := out.Get(domain.AttrWeights).Value.([]string)
	if len(ws) != 1 || ws[0] != "0.6 pounds" {
		t.Errorf("weights = %v, want the single value", ws)
	}
}

func TestWeightsSplitsMultipleValues(t *testing.T) {
	rec := recordWith(domain.AttrWeights, domain.Confirmed("1.2 pounds; 0.5 kg", domain.OriginPrimaryExport))
	out := Weights(rec)

	f := out.Get(domain.AttrWeights)
	ws, _ := f.Value.([]string)
	if len(ws) != 2 || ws[0] != "1.2 pounds" || ws[1] != "0.5 kg" {
		t.Fatalf("weights = %v, want both values", ws)
	}
	if f.Confidence != domain.ConfidenceConfirmed || f.Origin != domain.OriginPrimaryExport {
		t.Errorf("provenance = %v/%v, want unchanged", f.Confidence, f.Origin)
	}

	rec = recordWith(domain.AttrWeights, domain.Confirmed("1.2 pounds; 3 stone", domain.OriginPrimaryExport))
	if out := Weights(rec); out.Has(domain.AttrWeights) {
		t.Error("one unknown unit should drop the whole set")
	}
}

func TestBarcodeDefaultsToBookID(t *testing.T) {
	rec := domain.NewBookRecord("12345", "", "x")
	out := Barcode(rec)

	f := out.Get(domain.AttrBarcode)
	if f.Value != "12345" {
		t.Errorf("barcode = %v, want book id", f.Value)
	}
	if f.Confidence != domain.ConfidenceInferred || f.Origin != domain.OriginAutogenerated {
		t.Errorf("provenance = %v/%v, want inferred/autogenerated", f.Confidence, f.Origin)
	}

	rec = recordWith(domain.AttrBarcode, domain.Confirmed("30042", domain.OriginPrimaryExport))
	out = Barcode(rec)
	if out.Str(domain.AttrBarcode) != "30042" {
		t.Error("explicit barcode must not be replaced")
	}
}

func TestAuthorOrderDowngradesPrimaryOnly(t *testing.T) {
	authors := []domain.Author{{LastFirst: "Tolkien, J. R. R."}}

	rec := recordWith(domain.AttrAuthors, domain.Confirmed(authors, domain.OriginPrimaryExport))
	out := AuthorOrder(rec)
	if got := out.Get(domain.AttrAuthors).Confidence; got != domain.ConfidenceInferred {
		t.Errorf("primary-only author order = %v, want inferred", got)
	}

	rec = recordWith(domain.AttrAuthors, domain.Confirmed(authors, domain.OriginSupplementaryExport))
	out = AuthorOrder(rec)
	if got := out.Get(domain.AttrAuthors).Confidence; got != domain.ConfidenceConfirmed {
		t.Errorf("supplement author order = %v, want confirmed", got)
	}
}

func TestVenueSelection(t *testing.T) {
	candidates := []domain.VenueCandidate{
		{Name: "Strand Bookstore", VenueID: "77", Rank: 0},
		{Name: "Strand Books Annex", VenueID: "78", Rank: 1},
	}

	t.Run("search disabled falls back to free text", func(t *testing.T) {
		rec := recordWith(domain.AttrFromWhere, domain.Confirmed("Strand Bookstore", domain.OriginPrimaryExport))
		out := Venue(Config{VenueSearch: false}, rec, candidates)

		f := out.Get(domain.AttrVenue)
		if f.Value != "Strand Bookstore" {
			t.Errorf("venue = %v", f.Value)
		}
		if f.Origin != domain.OriginAutogenerated || f.Confidence != domain.ConfidenceInferred {
			t.Errorf("provenance = %v/%v, want inferred/autogenerated", f.Confidence, f.Origin)
		}
	})

	t.Run("first ranked candidate wins", func(t *testing.T) {
		rec := recordWith(domain.AttrFromWhere, domain.Confirmed("Strand Bookstore", domain.OriginPrimaryExport))
		out := Venue(Config{VenueSearch: true}, rec, candidates)

		got, _ := out.Get(domain.AttrVenue).Value.(domain.VenueCandidate)
		if got.VenueID != "77" {
			t.Errorf("venue id = %q, want 77", got.VenueID)
		}
		if out.Get(domain.AttrVenue).Confidence != domain.ConfidenceConfirmed {
			t.Error("matched venue should be confirmed")
		}
	})

	t.Run("no candidates falls back to free text", func(t *testing.T) {
		rec := recordWith(domain.AttrFromWhere, domain.Confirmed("garage sale", domain.OriginPrimaryExport))
		out := Venue(Config{VenueSearch: true}, rec, nil)

		if out.Get(domain.AttrVenue).Value != "garage sale" {
			t.Errorf("venue = %v", out.Get(domain.AttrVenue).Value)
		}
	})

	t.Run("no from-where leaves record unchanged", func(t *testing.T) {
		rec := domain.NewBookRecord("1", "", "x")
		out := Venue(Config{VenueSearch: true}, rec, candidates)
		if out.Has(domain.AttrVenue) {
			t.Error("venue set without a from-where value")
		}
	})
}
