package ledger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shelfport/shelfport/internal/record"
)

// ParseIDList parses a book-id restriction: comma or whitespace separated
// ids, or "@path" to read the same format from a file (the format Flush
// writes). An explicitly given empty list is an error.
func ParseIDList(spec string) ([]string, error) {
	if strings.HasPrefix(spec, "@") {
		b, err := os.ReadFile(spec[1:])
		if err != nil {
			return nil, fmt.Errorf("read id list: %w", err)
		}
		spec = string(b)
	}
	var ids []string
	for _, part := range strings.Split(spec, ",") {
		ids = append(ids, strings.Fields(part)...)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty list of book ids")
	}
	return ids, nil
}

// FilterTo restricts the input list to the given ids, preserving the
// original relative order of the input. Ids not present in the input are
// reported so the operator learns about stale resume entries.
func FilterTo(records []record.RawRecord, ids []string) (kept []record.RawRecord, missing []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, r := range records {
		if want[r.ID] {
			kept = append(kept, r)
			delete(want, r.ID)
		}
	}
	for _, id := range ids {
		if want[id] {
			missing = append(missing, id)
		}
	}
	return kept, missing
}

// ErrorsFile incrementally appends failed ids so an interrupted run still
// leaves a usable resume list. Writes go through immediately; Close only
// closes the handle.
type ErrorsFile struct {
	w io.WriteCloser
}

// OpenErrorsFile creates (truncating) the errors file at path.
func OpenErrorsFile(path string) (*ErrorsFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open errors file: %w", err)
	}
	return &ErrorsFile{w: f}, nil
}

// Append writes one failed id.
func (e *ErrorsFile) Append(bookID string) error {
	_, err := fmt.Fprintln(e.w, bookID)
	return err
}

// Close closes the underlying file.
func (e *ErrorsFile) Close() error { return e.w.Close() }
