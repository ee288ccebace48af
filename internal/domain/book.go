package domain

// Confidence describes how much trust a resolved attribute value carries.
type Confidence int

const (
	// ConfidenceAbsent means no value could be resolved. The workflow must
	// leave the corresponding form field to the destination's own defaulting
	// rather than fabricate a value.
	ConfidenceAbsent Confidence = iota

	// ConfidenceInferred means the value was derived by a heuristic.
	ConfidenceInferred

	// ConfidenceConfirmed means the source stated the value explicitly.
	ConfidenceConfirmed
)

// String returns a human-readable representation of the confidence level.
func (c Confidence) String() string {
	switch c {
	case ConfidenceAbsent:
		return "absent"
	case ConfidenceInferred:
		return "inferred"
	case ConfidenceConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Origin describes which source supplied an attribute value.
type Origin int

const (
	OriginPrimaryExport Origin = iota
	OriginSupplementaryExport
	OriginUserOverride
	OriginAutogenerated
)

// String returns a human-readable representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginPrimaryExport:
		return "primary-export"
	case OriginSupplementaryExport:
		return "supplementary-export"
	case OriginUserOverride:
		return "user-override"
	case OriginAutogenerated:
		return "autogenerated"
	default:
		return "unknown"
	}
}

// Field is one attribute slot of a BookRecord: a typed value annotated with
// confidence and provenance.
type Field struct {
	Value      any
	Confidence Confidence
	Origin     Origin
}

// Absent is the zero Field: no value, ConfidenceAbsent.
func Absent() Field { return Field{} }

// Confirmed wraps a value stated explicitly by the given origin.
func Confirmed(value any, origin Origin) Field {
	return Field{Value: value, Confidence: ConfidenceConfirmed, Origin: origin}
}

// Inferred wraps a value derived by a heuristic.
func Inferred(value any, origin Origin) Field {
	return Field{Value: value, Confidence: ConfidenceInferred, Origin: origin}
}

// Attr names one attribute of a BookRecord.
type Attr string

// Attribute names. Every attribute present in the primary export maps to
// exactly one of these; the normalizer never silently drops one.
const (
	AttrSortCharacter  Attr = "sortcharacter"
	AttrAuthors        Attr = "authors"
	AttrTags           Attr = "tags"
	AttrCollections    Attr = "collections"
	AttrRating         Attr = "rating"
	AttrReview         Attr = "review"
	AttrReviewLanguage Attr = "reviewlang"
	AttrFormat         Attr = "format"
	AttrPubDate        Attr = "date"
	AttrPublication    Attr = "publication"
	AttrISBN           Attr = "originalisbn"
	AttrVolumes        Attr = "volumes"
	AttrCopies         Attr = "copies"
	AttrPages          Attr = "pages"
	AttrPaginations    Attr = "paginations"
	AttrDimensions     Attr = "dimensions"
	AttrWeights        Attr = "weight"
	AttrLanguages      Attr = "language"
	AttrOrigLanguage   Attr = "originallanguage"
	AttrReadingDates   Attr = "readingdates"
	AttrDateAcquired   Attr = "dateacquired"
	AttrFromWhere      Attr = "fromwhere"
	AttrVenue          Attr = "venue"
	AttrLCC            Attr = "lcc"
	AttrDewey          Attr = "ddc"
	AttrCallNumber     Attr = "callnumber"
	AttrComments       Attr = "comment"
	AttrPrivateComment Attr = "privatecomment"
	AttrSummary        Attr = "summary"
	AttrPhysicalDesc   Attr = "physical_description"
	AttrBarcode        Attr = "barcode"
	AttrBCID           Attr = "bcid"
	AttrEAN            Attr = "ean"
	AttrUPC            Attr = "upc"
	AttrASIN           Attr = "asin"
	AttrLCCN           Attr = "lccn"
	AttrOCLC           Attr = "oclc"
	AttrSource         Attr = "source"
	AttrPrivate        Attr = "private"
	AttrLexile         Attr = "lexile"
	AttrCover          Attr = "cover"

	// Provenance flags carried by the supplementary export.
	AttrSummaryAuto    Attr = "summary_auto"
	AttrPhysicalAuto   Attr = "physical_auto"
	AttrVenueConfirmed Attr = "venue_confirmed"
)

// Author is one credited person, last-name-first, with an optional role.
type Author struct {
	LastFirst string
	Role      string
}

// Format is a media type: destination code plus display text. Custom formats
// carry a code nested under a parent code (e.g. "text.X_m").
type Format struct {
	Code string
	Text string
}

// PaginationKind classifies one pagination value.
type PaginationKind int

const (
	PaginationNumeric PaginationKind = iota
	PaginationRoman
	PaginationOther
)

// String returns the destination's display name for the kind.
func (k PaginationKind) String() string {
	switch k {
	case PaginationNumeric:
		return "1,2,3,..."
	case PaginationRoman:
		return "i,ii,iii,..."
	default:
		return "other"
	}
}

// Pagination is one page-count value with its classified kind.
type Pagination struct {
	Count string
	Kind  PaginationKind
}

// Dimensions is the most specific known physical measurement set. Values keep
// the export's "<number> <unit>" form; only one historical set is retained.
type Dimensions struct {
	Height    string
	Length    string
	Thickness string
}

// Empty reports whether no measurement is present.
func (d Dimensions) Empty() bool {
	return d.Height == "" && d.Length == "" && d.Thickness == ""
}

// Languages carries the primary and secondary language names with their
// deduplicated code list, plus the original-language names and codes.
type Languages struct {
	Names     []string
	Codes     []string
	OrigNames []string
	OrigCodes []string
}

// LanguageChoice is one resolved language form entry: display name plus the
// destination's selector code.
type LanguageChoice struct {
	Name string
	Code string
}

// ReadingDates is one started/finished pair. Only the most recent pair is
// entered; the supplementary export may carry the full history.
type ReadingDates struct {
	Started  string
	Finished string
}

// BookRecord is the canonical in-memory representation of one source book:
// immutable identity fields plus annotated attribute slots.
type BookRecord struct {
	// ID is the source book id. Required; records without it are malformed.
	ID string

	// WorkID is the source's stated work identifier, if any.
	WorkID string

	// Title is the book title. The destination requires it on entry.
	Title string

	attrs map[Attr]Field
}

// NewBookRecord creates a record with the given identity and no attributes.
func NewBookRecord(id, workID, title string) *BookRecord {
	return &BookRecord{
		ID:     id,
		WorkID: workID,
		Title:  title,
		attrs:  make(map[Attr]Field),
	}
}

// Get returns the field for attr. A never-set attribute reads as Absent.
func (r *BookRecord) Get(attr Attr) Field {
	return r.attrs[attr]
}

// Set stores the field for attr.
func (r *BookRecord) Set(attr Attr, f Field) {
	r.attrs[attr] = f
}

// Has reports whether attr resolved to a usable value.
func (r *BookRecord) Has(attr Attr) bool {
	return r.attrs[attr].Confidence != ConfidenceAbsent
}

// Str returns the string value of attr, or "" when absent or non-string.
func (r *BookRecord) Str(attr Attr) string {
	if s, ok := r.attrs[attr].Value.(string); ok {
		return s
	}
	return ""
}

// Attrs returns the attribute names set on the record, in no particular order.
func (r *BookRecord) Attrs() []Attr {
	out := make([]Attr, 0, len(r.attrs))
	for a := range r.attrs {
		out = append(out, a)
	}
	return out
}

// Clone returns a copy sharing no attribute map with the receiver, so that
// resolver stages can annotate without mutating their input.
func (r *BookRecord) Clone() *BookRecord {
	cp := NewBookRecord(r.ID, r.WorkID, r.Title)
	for a, f := range r.attrs {
		cp.attrs[a] = f
	}
	return cp
}
