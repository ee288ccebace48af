package domain

// VenueCandidate is one result of a venue-directory search. It lives only for
// the resolution of a single book.
type VenueCandidate struct {
	// Name is the venue's display name.
	Name string

	// VenueID is the destination-internal identifier.
	VenueID string

	// Rank is the zero-based position in the search results.
	Rank int
}

// SourceCandidate is one result of searching the destination's catalog of
// known works. It lives for a single resolution attempt.
type SourceCandidate struct {
	// CandidateID identifies the catalog entry to link against.
	CandidateID string

	// WorkID is the work identifier derived from the candidate, if exposed.
	WorkID string

	Title     string
	Authors   []string
	Publisher string
	Year      string

	// Rank is the zero-based position in the search results. Ties in the
	// match score break toward the earliest rank.
	Rank int
}
