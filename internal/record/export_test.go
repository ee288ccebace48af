package record

import (
	"strings"
	"testing"
)

func TestParsePrimaryPreservesOrder(t *testing.T) {
	input := `{
		"57": {"title": "Second in file"},
		"3":  {"title": "First numerically"},
		"42": {"title": "Last in file"}
	}`

	records, err := ParsePrimary(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePrimary failed: %v", err)
	}

	wantOrder := []string{"57", "3", "42"}
	if len(records) != len(wantOrder) {
		t.Fatalf("got %d records, want %d", len(records), len(wantOrder))
	}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Errorf("record %d: got id %q, want %q", i, records[i].ID, want)
		}
	}
	if records[0].Data["title"] != "Second in file" {
		t.Errorf("record 0 data not decoded: %v", records[0].Data)
	}
}

func TestParsePrimaryRejectsNonObject(t *testing.T) {
	if _, err := ParsePrimary(strings.NewReader(`[1, 2]`)); err == nil {
		t.Fatal("expected error for JSON array input")
	}
	if _, err := ParsePrimary(strings.NewReader(``)); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestParseSupplementary(t *testing.T) {
	input := `{
		"42": {"_extra": {
			"secondary_authors": [{"lf": "Tolkien, Christopher", "role": "Editor"}],
			"languages": ["English", "Old English"],
			"reading_dates": [{"started": "2020-01-01", "finished": "2020-02-01"}],
			"ddc": "823.912",
			"summary_auto": true,
			"venue": false
		}}
	}`

	sups, err := ParseSupplementary(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSupplementary failed: %v", err)
	}

	sup, ok := sups["42"]
	if !ok {
		t.Fatalf("book 42 missing from supplements: %v", sups)
	}
	if len(sup.SecondaryAuthors) != 1 || sup.SecondaryAuthors[0].LastFirst != "Tolkien, Christopher" {
		t.Errorf("secondary authors = %v", sup.SecondaryAuthors)
	}
	if sup.SecondaryAuthors[0].Role != "Editor" {
		t.Errorf("role = %q, want Editor", sup.SecondaryAuthors[0].Role)
	}
	if len(sup.Languages) != 2 {
		t.Errorf("languages = %v", sup.Languages)
	}
	if sup.Dewey != "823.912" {
		t.Errorf("dewey = %q", sup.Dewey)
	}
	if sup.SummaryAuto == nil || !*sup.SummaryAuto {
		t.Errorf("summary_auto = %v, want true", sup.SummaryAuto)
	}
	if sup.VenueConfirmed == nil || *sup.VenueConfirmed {
		t.Errorf("venue = %v, want false", sup.VenueConfirmed)
	}
	if sup.PhysicalAuto != nil {
		t.Errorf("physical_auto should be nil when not collected, got %v", *sup.PhysicalAuto)
	}
}
