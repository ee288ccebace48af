package ports

import "context"

// SessionStore handles persistence of the opaque session blob (cookies) so a
// later run can reuse the login. Implementations persist atomically.
type SessionStore interface {
	// Load retrieves the last saved session blob.
	// Returns a nil blob and nil error if no session exists.
	// Returns an error only for actual read failures.
	Load(ctx context.Context) ([]byte, error)

	// Save persists the session blob atomically.
	Save(ctx context.Context, blob []byte) error
}
