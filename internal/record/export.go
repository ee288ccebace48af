package record

import (
	"encoding/json"
	"fmt"
	"io"
)

// RawRecord is one entry of the primary export: the book id it was keyed by
// plus its untyped attribute data.
type RawRecord struct {
	ID   string
	Data map[string]any
}

// ParsePrimary reads the primary export: a JSON object mapping source book id
// to a record object. Entry order follows the file, which later id-restricted
// runs must preserve, so the object is walked token by token instead of
// decoding into a map.
func ParsePrimary(r io.Reader) ([]RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("read export: expected JSON object, got %v", tok)
	}

	var out []RawRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read export: %w", err)
		}
		id, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("read export: non-string key %v", keyTok)
		}
		var data map[string]any
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("read export record %s: %w", id, err)
		}
		out = append(out, RawRecord{ID: id, Data: data})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return out, nil
}

// Supplement is the extra-detail data collected for one book, keyed by the
// same source book id as the primary export.
type Supplement struct {
	// SecondaryAuthors is the authoritative author order beyond the primary
	// author, when collected.
	SecondaryAuthors []SupplementAuthor `json:"secondary_authors"`

	// Languages is the full language name list in order.
	Languages []string `json:"languages"`

	// ReadingDates is the full started/finished history, most recent first.
	ReadingDates []SupplementDates `json:"reading_dates"`

	Lexile string `json:"lexile"`

	// Dewey is the confirmed Dewey number.
	Dewey string `json:"ddc"`

	// SummaryAuto / PhysicalAuto report whether the destination autogenerated
	// the summary and physical description. Nil means not collected.
	SummaryAuto  *bool `json:"summary_auto"`
	PhysicalAuto *bool `json:"physical_auto"`

	// VenueConfirmed reports whether the from-where value names a directory
	// venue rather than free text. Nil means not collected.
	VenueConfirmed *bool `json:"venue"`

	// Cover is the selected cover identifier.
	Cover string `json:"cover"`
}

// SupplementAuthor mirrors the collected author entries.
type SupplementAuthor struct {
	LastFirst string `json:"lf"`
	Role      string `json:"role,omitempty"`
}

// SupplementDates mirrors one collected reading-date pair.
type SupplementDates struct {
	Started  string `json:"started"`
	Finished string `json:"finished"`
}

type supplementEnvelope struct {
	Extra Supplement `json:"_extra"`
}

// ParseSupplementary reads the optional extra-detail file: a JSON object
// mapping source book id to an envelope with an "_extra" member. Duplicate
// ids cannot survive JSON decoding, so the last occurrence wins.
func ParseSupplementary(r io.Reader) (map[string]Supplement, error) {
	var envelopes map[string]supplementEnvelope
	if err := json.NewDecoder(r).Decode(&envelopes); err != nil {
		return nil, fmt.Errorf("read supplementary data: %w", err)
	}
	out := make(map[string]Supplement, len(envelopes))
	for id, env := range envelopes {
		out[id] = env.Extra
	}
	return out, nil
}
