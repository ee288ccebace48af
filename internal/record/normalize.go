package record

import (
	"encoding/json"
	"strings"

	"github.com/shelfport/shelfport/internal/domain"
)

// Normalize converts one raw export record into a canonical BookRecord.
// Attributes the source states explicitly come out ConfidenceConfirmed;
// missing or null fields are left absent. The only hard requirement is the
// source book id; anything else missing is tolerated.
func Normalize(raw RawRecord) (*domain.BookRecord, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return nil, &domain.MalformedRecordError{Reason: "missing source book id"}
	}
	data := raw.Data
	if data == nil {
		return nil, &domain.MalformedRecordError{ID: raw.ID, Reason: "record has no attribute data"}
	}

	rec := domain.NewBookRecord(raw.ID, asString(data["workcode"]), asString(data["title"]))

	setStr := func(attr domain.Attr, v any) {
		if s := asString(v); s != "" {
			rec.Set(attr, domain.Confirmed(s, domain.OriginPrimaryExport))
		}
	}

	setStr(domain.AttrSortCharacter, data["sortcharacter"])
	setStr(domain.AttrReview, data["review"])
	setStr(domain.AttrReviewLanguage, data["reviewlang"])
	setStr(domain.AttrPubDate, data["date"])
	setStr(domain.AttrPublication, data["publication"])
	setStr(domain.AttrISBN, data["originalisbn"])
	setStr(domain.AttrVolumes, data["volumes"])
	setStr(domain.AttrCopies, data["copies"])
	setStr(domain.AttrPages, data["pages"])
	setStr(domain.AttrWeights, data["weight"])
	setStr(domain.AttrDateAcquired, data["dateacquired"])
	setStr(domain.AttrFromWhere, data["fromwhere"])
	setStr(domain.AttrComments, data["comment"])
	setStr(domain.AttrPrivateComment, data["privatecomment"])
	setStr(domain.AttrSummary, data["summary"])
	setStr(domain.AttrPhysicalDesc, data["physical_description"])
	setStr(domain.AttrBCID, data["bcid"])
	setStr(domain.AttrASIN, data["asin"])
	setStr(domain.AttrLCCN, data["lccn"])
	setStr(domain.AttrOCLC, data["oclc"])
	setStr(domain.AttrSource, data["source"])

	// Identifier fields nested one level down in the export.
	setStr(domain.AttrEAN, path(data, "ean", 0))
	setStr(domain.AttrUPC, path(data, "upc", 0))
	setStr(domain.AttrLCC, path(data, "lcc", "code"))
	setStr(domain.AttrDewey, path(data, "ddc", "code", 0))
	setStr(domain.AttrCallNumber, path(data, "callnumber", 0))
	setStr(domain.AttrBarcode, path(data, "barcode", "1"))

	if authors := parseAuthors(data["authors"]); len(authors) > 0 {
		rec.Set(domain.AttrAuthors, domain.Confirmed(authors, domain.OriginPrimaryExport))
	}
	if tags := asStringList(data["tags"]); len(tags) > 0 {
		rec.Set(domain.AttrTags, domain.Confirmed(tags, domain.OriginPrimaryExport))
	}
	if colls := asStringList(data["collections"]); len(colls) > 0 {
		rec.Set(domain.AttrCollections, domain.Confirmed(colls, domain.OriginPrimaryExport))
	}
	if rating, ok := asFloat(data["rating"]); ok && rating > 0 {
		rec.Set(domain.AttrRating, domain.Confirmed(rating, domain.OriginPrimaryExport))
	}
	if f := parseFormat(path(data, "format", 0)); f.Code != "" || f.Text != "" {
		rec.Set(domain.AttrFormat, domain.Confirmed(f, domain.OriginPrimaryExport))
	}

	dims := domain.Dimensions{
		Height:    asString(data["height"]),
		Length:    asString(data["length"]),
		Thickness: asString(data["thickness"]),
	}
	if !dims.Empty() {
		rec.Set(domain.AttrDimensions, domain.Confirmed(dims, domain.OriginPrimaryExport))
	}

	langs := domain.Languages{
		Names:     asStringList(data["language"]),
		Codes:     asStringList(data["language_codeA"]),
		OrigNames: asStringList(data["originallanguage"]),
		OrigCodes: asStringList(data["originallanguage_codeA"]),
	}
	if len(langs.Names) > 0 || len(langs.OrigNames) > 0 {
		rec.Set(domain.AttrLanguages, domain.Confirmed(langs, domain.OriginPrimaryExport))
	}

	dates := domain.ReadingDates{
		Started:  asString(data["datestarted"]),
		Finished: asString(data["dateread"]),
	}
	if dates.Started != "" || dates.Finished != "" {
		rec.Set(domain.AttrReadingDates,
			domain.Confirmed([]domain.ReadingDates{dates}, domain.OriginPrimaryExport))
	}

	return rec, nil
}

// path extracts a nested value the way the export structures data: string
// keys index objects, int keys index arrays. Any miss returns nil.
func path(obj any, keys ...any) any {
	for _, key := range keys {
		switch k := key.(type) {
		case string:
			m, ok := obj.(map[string]any)
			if !ok {
				return nil
			}
			obj = m[k]
		case int:
			l, ok := obj.([]any)
			if !ok {
				return nil
			}
			i := k
			if i < 0 {
				i += len(l)
			}
			if i < 0 || i >= len(l) {
				return nil
			}
			obj = l[i]
		}
		if obj == nil {
			return nil
		}
	}
	return obj
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func asStringList(v any) []string {
	l, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseAuthors(v any) []domain.Author {
	l, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Author, 0, len(l))
	for _, item := range l {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		a := domain.Author{LastFirst: asString(m["lf"]), Role: asString(m["role"])}
		if a.LastFirst != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseFormat(v any) domain.Format {
	m, ok := v.(map[string]any)
	if !ok {
		return domain.Format{}
	}
	return domain.Format{Code: asString(m["code"]), Text: asString(m["text"])}
}
