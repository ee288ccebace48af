package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/shelfport/shelfport/internal/domain"
)

func TestNormalizeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
	}{
		{"missing id", RawRecord{ID: "  ", Data: map[string]any{"title": "x"}}},
		{"nil data", RawRecord{ID: "42", Data: nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			var malformed *domain.MalformedRecordError
			if !errors.As(err, &malformed) {
				t.Fatalf("got %v, want MalformedRecordError", err)
			}
		})
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	input := `{
		"42": {
			"title": "The Hobbit",
			"workcode": "2773690",
			"authors": [{"lf": "Tolkien, J. R. R.", "role": ""}],
			"originalisbn": "9780261102217",
			"ean": ["9780261102217"],
			"upc": [],
			"lcc": {"code": "PR6039.O32"},
			"ddc": {"code": ["823.912"]},
			"callnumber": ["823.912 TOL"],
			"barcode": {"1": "30042"},
			"tags": ["fantasy", "reread"],
			"collections": ["Your library"],
			"rating": 4.5,
			"format": [{"code": "2", "text": "Paperback"}],
			"pages": "xii;310",
			"height": "7.8 inches",
			"thickness": "1.1 inches",
			"weight": "0.6 pounds",
			"language": ["English"],
			"language_codeA": ["ENG"],
			"originallanguage": ["English"],
			"datestarted": "2021-06-01",
			"dateread": "2021-06-20",
			"fromwhere": "Strand Bookstore",
			"source": "Amazon.com"
		}
	}`
	records, err := ParsePrimary(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePrimary failed: %v", err)
	}
	rec, err := Normalize(records[0])
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if rec.ID != "42" || rec.WorkID != "2773690" || rec.Title != "The Hobbit" {
		t.Fatalf("identity = %q/%q/%q", rec.ID, rec.WorkID, rec.Title)
	}

	strChecks := map[domain.Attr]string{
		domain.AttrISBN:       "9780261102217",
		domain.AttrEAN:        "9780261102217",
		domain.AttrLCC:        "PR6039.O32",
		domain.AttrDewey:      "823.912",
		domain.AttrCallNumber: "823.912 TOL",
		domain.AttrBarcode:    "30042",
		domain.AttrPages:      "xii;310",
		domain.AttrWeights:    "0.6 pounds",
		domain.AttrFromWhere:  "Strand Bookstore",
		domain.AttrSource:     "Amazon.com",
	}
	for attr, want := range strChecks {
		if got := rec.Str(attr); got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}

	if rec.Has(domain.AttrUPC) {
		t.Error("empty upc list should stay absent")
	}

	authors, _ := rec.Get(domain.AttrAuthors).Value.([]domain.Author)
	if len(authors) != 1 || authors[0].LastFirst != "Tolkien, J. R. R." {
		t.Errorf("authors = %v", authors)
	}

	if rating, _ := rec.Get(domain.AttrRating).Value.(float64); rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", rating)
	}

	format, _ := rec.Get(domain.AttrFormat).Value.(domain.Format)
	if format.Code != "2" || format.Text != "Paperback" {
		t.Errorf("format = %+v", format)
	}

	dims, _ := rec.Get(domain.AttrDimensions).Value.(domain.Dimensions)
	if dims.Height != "7.8 inches" || dims.Length != "" || dims.Thickness != "1.1 inches" {
		t.Errorf("dimensions = %+v", dims)
	}

	langs, _ := rec.Get(domain.AttrLanguages).Value.(domain.Languages)
	if len(langs.Names) != 1 || langs.Names[0] != "English" || len(langs.Codes) != 1 {
		t.Errorf("languages = %+v", langs)
	}

	dates, _ := rec.Get(domain.AttrReadingDates).Value.([]domain.ReadingDates)
	if len(dates) != 1 || dates[0].Started != "2021-06-01" || dates[0].Finished != "2021-06-20" {
		t.Errorf("reading dates = %v", dates)
	}

	// Explicit values from the export come out confirmed.
	if f := rec.Get(domain.AttrISBN); f.Confidence != domain.ConfidenceConfirmed || f.Origin != domain.OriginPrimaryExport {
		t.Errorf("isbn provenance = %v/%v", f.Confidence, f.Origin)
	}
}

func TestNormalizeSparseRecord(t *testing.T) {
	rec, err := Normalize(RawRecord{ID: "7", Data: map[string]any{"title": "Untracked"}})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if rec.Title != "Untracked" {
		t.Errorf("title = %q", rec.Title)
	}
	if len(rec.Attrs()) != 0 {
		t.Errorf("sparse record should carry no attributes, got %v", rec.Attrs())
	}
}
