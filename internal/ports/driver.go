package ports

import (
	"context"

	"github.com/shelfport/shelfport/internal/domain"
)

// SearchQuery describes one catalog search against the destination.
// Identifier/Value take precedence when set; Title/Author otherwise.
type SearchQuery struct {
	// Source names the destination-side data source to search ("" for the
	// destination's default).
	Source string

	// Identifier is the identifier kind being searched by (e.g. "isbn").
	Identifier string

	// Value is the identifier value.
	Value string

	Title  string
	Author string
}

// Driver exposes the destination's add/edit workflow as semantic operations.
// The core never manipulates raw page elements; it issues these operations
// and interprets their results.
//
// Implementations own exactly one destination session. Every operation blocks
// with a read timeout; callers treat a returned error as terminal for the
// current book.
type Driver interface {
	// LoggedIn reports whether the session is authenticated. It is checked
	// once before the first book is processed.
	LoggedIn(ctx context.Context) (bool, error)

	// Search queries the destination's catalog of known works.
	// An empty result is not an error.
	Search(ctx context.Context, q SearchQuery) ([]domain.SourceCandidate, error)

	// SearchVenue queries the destination's venue directory by name.
	// An empty result is not an error.
	SearchVenue(ctx context.Context, name string) ([]domain.VenueCandidate, error)

	// OpenEntryForm navigates to the entry form. In source-matched mode the
	// candidate selects the catalog work to link against; in manual mode
	// candidate is nil.
	OpenEntryForm(ctx context.Context, mode domain.EntryMode, candidate *domain.SourceCandidate) error

	// SetField applies one resolved attribute value to the named form field.
	// Structured values (author lists, paginations, dimensions) are handled
	// per field name by the implementation.
	SetField(ctx context.Context, name string, value any) error

	// Submit performs the create/update action and returns the created or
	// updated record's destination id.
	Submit(ctx context.Context) (string, error)

	// ReadBack re-reads the record with the given destination id and returns
	// its identifier fields for verification.
	ReadBack(ctx context.Context, id string) (map[string]string, error)
}
