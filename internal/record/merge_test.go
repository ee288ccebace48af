package record

import (
	"reflect"
	"testing"

	"github.com/shelfport/shelfport/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestMergeOverridesCollectedAttributes(t *testing.T) {
	rec := domain.NewBookRecord("42", "", "The Silmarillion")
	rec.Set(domain.AttrAuthors, domain.Confirmed([]domain.Author{
		{LastFirst: "Tolkien, J. R. R."},
		{LastFirst: "Wrong, Order"},
	}, domain.OriginPrimaryExport))
	rec.Set(domain.AttrLanguages, domain.Confirmed(domain.Languages{
		Names: []string{"English"},
		Codes: []string{"ENG"},
	}, domain.OriginPrimaryExport))
	rec.Set(domain.AttrDewey, domain.Confirmed("800", domain.OriginPrimaryExport))

	sup := Supplement{
		SecondaryAuthors: []SupplementAuthor{{LastFirst: "Tolkien, Christopher", Role: "Editor"}},
		Languages:        []string{"English", "Old English"},
		ReadingDates: []SupplementDates{
			{Started: "2022-01-01", Finished: "2022-03-01"},
			{Started: "2010-05-01", Finished: "2010-06-01"},
		},
		Dewey:       "823.912",
		SummaryAuto: boolPtr(true),
	}

	merged := Merge(rec, sup)

	authors, _ := merged.Get(domain.AttrAuthors).Value.([]domain.Author)
	wantAuthors := []domain.Author{
		{LastFirst: "Tolkien, J. R. R."},
		{LastFirst: "Tolkien, Christopher", Role: "Editor"},
	}
	if !reflect.DeepEqual(authors, wantAuthors) {
		t.Errorf("authors = %v, want %v", authors, wantAuthors)
	}
	if f := merged.Get(domain.AttrAuthors); f.Origin != domain.OriginSupplementaryExport {
		t.Errorf("authors origin = %v", f.Origin)
	}

	langs, _ := merged.Get(domain.AttrLanguages).Value.(domain.Languages)
	if !reflect.DeepEqual(langs.Names, []string{"English", "Old English"}) {
		t.Errorf("language names = %v", langs.Names)
	}
	if !reflect.DeepEqual(langs.Codes, []string{"ENG"}) {
		t.Errorf("language codes should survive the merge, got %v", langs.Codes)
	}

	if got := merged.Str(domain.AttrDewey); got != "823.912" {
		t.Errorf("dewey = %q", got)
	}

	dates, _ := merged.Get(domain.AttrReadingDates).Value.([]domain.ReadingDates)
	if len(dates) != 2 || dates[0].Started != "2022-01-01" {
		t.Errorf("reading dates = %v", dates)
	}

	if auto, _ := merged.Get(domain.AttrSummaryAuto).Value.(bool); !auto {
		t.Error("summary auto flag not carried")
	}

	// Input record is untouched.
	if got := rec.Str(domain.AttrDewey); got != "800" {
		t.Errorf("merge mutated its input: dewey = %q", got)
	}
}

func TestMergeKeepsUncollectedAttributes(t *testing.T) {
	rec := domain.NewBookRecord("7", "", "Beowulf")
	rec.Set(domain.AttrISBN, domain.Confirmed("9780393320978", domain.OriginPrimaryExport))

	merged := Merge(rec, Supplement{})

	if got := merged.Str(domain.AttrISBN); got != "9780393320978" {
		t.Errorf("isbn = %q", got)
	}
	if f := merged.Get(domain.AttrISBN); f.Origin != domain.OriginPrimaryExport {
		t.Errorf("origin changed without supplement data: %v", f.Origin)
	}
	if merged.Has(domain.AttrSummaryAuto) {
		t.Error("nil flag must stay absent")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	rec := domain.NewBookRecord("9", "", "The Hobbit")
	rec.Set(domain.AttrAuthors, domain.Confirmed([]domain.Author{
		{LastFirst: "Tolkien, J. R. R."},
	}, domain.OriginPrimaryExport))

	sup := Supplement{
		SecondaryAuthors: []SupplementAuthor{{LastFirst: "Baggins, Bilbo", Role: "Narrator"}},
		Lexile:           "1000L",
	}

	once := Merge(rec, sup)
	twice := Merge(once, sup)

	onceAuthors, _ := once.Get(domain.AttrAuthors).Value.([]domain.Author)
	twiceAuthors, _ := twice.Get(domain.AttrAuthors).Value.([]domain.Author)
	if !reflect.DeepEqual(onceAuthors, twiceAuthors) {
		t.Errorf("author merge not idempotent: %v vs %v", onceAuthors, twiceAuthors)
	}
	if once.Str(domain.AttrLexile) != twice.Str(domain.AttrLexile) {
		t.Error("lexile merge not idempotent")
	}
}
