// Package fs provides file-system adapters.
package fs

import (
	"context"
	"os"
	"path/filepath"
)

// SessionFileStore implements ports.SessionStore using a JSON cookie file.
type SessionFileStore struct {
	path string
}

// NewSessionFileStore creates a store persisting to the given path.
func NewSessionFileStore(path string) *SessionFileStore {
	return &SessionFileStore{path: path}
}

// Load retrieves the last saved session blob.
// Returns a nil blob and nil error if no session file exists.
func (s *SessionFileStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Save persists the session blob atomically.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (s *SessionFileStore) Save(ctx context.Context, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Path returns the session file path.
func (s *SessionFileStore) Path() string { return s.path }
