package workflow

import (
	"context"

	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/ports"
)

// fieldOp applies one attribute group to the form. Ops run in a fixed order
// mirroring the destination's form layout; each one skips itself when its
// attributes resolved absent, leaving the destination's own defaulting in
// effect.
type fieldOp struct {
	name  string
	apply func(ctx context.Context, w *Workflow, rec *domain.BookRecord) error
}

var fieldOps = []fieldOp{
	{"title", applyTitle},
	{"sortcharacter", applyStr(domain.AttrSortCharacter, "sortcharacter")},
	{"tags", applyTags},
	{"collections", applyValue(domain.AttrCollections, "collections")},
	{"rating", applyValue(domain.AttrRating, "rating")},
	{"review", applyStr(domain.AttrReview, "review")},
	{"reviewlang", applyStr(domain.AttrReviewLanguage, "reviewlang")},
	{"authors", applyValue(domain.AttrAuthors, "authors")},
	{"format", applyValue(domain.AttrFormat, "format")},
	{"date", applyStr(domain.AttrPubDate, "date")},
	{"publication", applyStr(domain.AttrPublication, "publication")},
	{"isbn", applyStr(domain.AttrISBN, "isbn")},
	{"volumes", applyStr(domain.AttrVolumes, "volumes")},
	{"copies", applyStr(domain.AttrCopies, "copies")},
	{"paginations", applyValue(domain.AttrPaginations, "paginations")},
	{"dimensions", applyValue(domain.AttrDimensions, "dimensions")},
	{"weights", applyValue(domain.AttrWeights, "weights")},
	{"languages", applyLanguages},
	{"reading_dates", applyReadingDates},
	{"dateacquired", applyStr(domain.AttrDateAcquired, "dateacquired")},
	{"venue", applyVenue},
	{"lcc", applyStr(domain.AttrLCC, "lcc")},
	{"dewey", applyStr(domain.AttrDewey, "dewey")},
	{"callnumber", applyStr(domain.AttrCallNumber, "callnumber")},
	{"comments", applyStr(domain.AttrComments, "comments")},
	{"privatecomment", applyStr(domain.AttrPrivateComment, "privatecomment")},
	{"summary", applyStr(domain.AttrSummary, "summary")},
	{"physical_description", applyStr(domain.AttrPhysicalDesc, "physical_description")},
	{"barcode", applyStr(domain.AttrBarcode, "barcode")},
	{"bcid", applyStr(domain.AttrBCID, "bcid")},
	{"cover", applyStr(domain.AttrCover, "cover")},
	{"private", applyPrivate},
}

// fillForm applies every resolved attribute to the open entry form.
func (w *Workflow) fillForm(ctx context.Context, rec *domain.BookRecord) error {
	for _, op := range fieldOps {
		if err := op.apply(ctx, w, rec); err != nil {
			return &domain.DriverInteractionError{Op: "setField " + op.name, Err: err}
		}
	}
	return nil
}

func (w *Workflow) setField(ctx context.Context, name string, value any) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.StepTimeout)
	defer cancel()
	w.logger.Debug("setting field", ports.String("field", name))
	return w.driver.SetField(ctx, name, value)
}

// applyStr sets a plain text field when the attribute resolved to a value.
func applyStr(attr domain.Attr, field string) func(context.Context, *Workflow, *domain.BookRecord) error {
	return func(ctx context.Context, w *Workflow, rec *domain.BookRecord) error {
		if !rec.Has(attr) {
			return nil
		}
		return w.setField(ctx, field, rec.Str(attr))
	}
}

// applyValue sets a structured field with its typed value.
func applyValue(attr domain.Attr, field string) func(context.Context, *Workflow, *domain.BookRecord) error {
	return func(ctx context.Context, w *Workflow, rec *domain.BookRecord) error {
		f := rec.Get(attr)
		if f.Confidence == domain.ConfidenceAbsent {
			return nil
		}
		return w.setField(ctx, field, f.Value)
	}
}

func applyTitle(ctx context.Context, w *Workflow, rec *domain.BookRecord) error {
	if rec.Title == "" {
		return nil
	}
	return w.setField(ctx, "title", rec.Title)
}

// applyTags merges the run-wide extra tag into the exported tag list.
func applyTags(ctx context.Context, w *Workflow, rec *domain.BookRecord) error {
	tags, _ := rec.Get(domain.AttrTags).Value.([]string)
	if w.cfg.Tag != "" {
		tags = append(append([]string(nil), tags...), w.cfg.Tag)
	}
	if len(tags) == 0 {
		return nil
	}
	return w.setField(ctx, "tags", tags)
}

// applyLanguages sets the primary, secondary, and original language fields.
// The original-language code list is deduplicated against the others, so the
// code is taken from the primary/secondary lists when the names match and
// from the last original code otherwise.
func applyLanguages(ctx context.Context, w *Workflow, rec *domain.BookRecord) error {
	f := rec.Get(domain.AttrLanguages)
	if f.Confidence == domain.ConfidenceAbsent {
		return nil
	}
	langs, ok := f.Value.(domain.Languages)
	if !ok {
		return nil
	}
	set := func(field, name, code string) error {
		if name == "" {
			return nil
		}
		return w.setField(ctx, field, domain.LanguageChoice{Name: name, Code: code})
	}
	if err := set("language_primary", langAt(langs.Names, 0), langAt(langs.Codes, 0)); err != nil {
		return err
	}
	if err := set("language_secondary", langAt(langs.Names, 1), langAt(langs.Codes, 1)); err != nil {
		return err
	}
	origName := langAt(langs.OrigNames, 0)
	if origName == "" {
		return nil
	}
	origCode := ""
	for i, n := range langs.Names {
		if n == origName {
			origCode = langAt(langs.Codes, i)
			break
		}
	}
	if origCode == "" && len(langs.OrigCodes) > 0 {
		origCode = langs.OrigCodes[len(langs.OrigCodes)-1]
	}
	return set("language_original", origName, origCode)
}

func langAt(l []string, i int) string {
	if i < len(l) {
		return l[i]
	}
	return ""
}

// applyReadingDates enters only the most recent started/finished pair. The
// full history stays on the record; the destination keeps a single row.
func applyReadingDates(ctx context.Context, w *Workflow, rec *domain.BookRecord) error {
	f := rec.Get(domain.AttrReadingDates)
	if f.Confidence == domain.ConfidenceAbsent {
		return nil
	}
	dates, ok := f.Value.([]domain.ReadingDates)
	if !ok || len(dates) == 0 {
		return nil
	}
	return w.setField(ctx, "reading_dates", dates[0])
}

// applyVenue enters the resolved from-where value: a directory venue when
// the resolver confirmed one, free text otherwise.
func applyVenue(ctx context.Context, w *Workflow, rec *domain.BookRecord) error {
	f := rec.Get(domain.AttrVenue)
	switch v := f.Value.(type) {
	case domain.VenueCandidate:
		return w.setField(ctx, "venue", v)
	case string:
		if v == "" {
			return nil
		}
		return w.setField(ctx, "from_where_text", v)
	default:
		return nil
	}
}

func applyPrivate(ctx context.Context, w *Workflow, rec *domain.BookRecord) error {
	if !w.cfg.ImportPrivate {
		return nil
	}
	return w.setField(ctx, "private", true)
}
