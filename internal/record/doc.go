// Package record turns raw export data into canonical book records.
//
// It parses the primary export (a JSON object keyed by source book id, in
// file order), normalizes each raw record into a domain.BookRecord, and
// merges optional supplementary detail records by id with field-level
// precedence.
package record
