// ABOUTME: Storage interfaces, table type and error taxonomy for reading-log persistence
// ABOUTME: Defines the Store contract shared by the Notion, CSV and SQLite backends

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/harper/readlog/internal/models"
)

// ErrUnconfigured is returned by backends that lack credentials. No I/O is attempted.
var ErrUnconfigured = errors.New("not configured")

// Store is one persistence backend.
type Store interface {
	// Name identifies the backend in user-facing messages.
	Name() string

	// Configured reports whether the backend can be used at all.
	Configured() bool

	// Write persists a single entry.
	Write(ctx context.Context, e models.Entry) error

	// Read returns every entry the backend holds, in insertion order.
	Read(ctx context.Context) ([]models.Entry, error)
}

// LocalStore is a backend whose whole table lives on this machine and can be
// rewritten. It is the authoritative fallback and the only editable store.
type LocalStore interface {
	Store

	// Append adds one row after the existing ones.
	Append(e models.Entry) error

	// Load returns the full table. Missing or corrupt data yields an empty
	// canonical table; it never fails.
	Load() *Table

	// Overwrite replaces the entire store contents. A concurrent Load observes
	// either the old or the new contents, never a partial write.
	Overwrite(t *Table) error

	// Export writes the table in the flat CSV format.
	Export(w io.Writer) error

	// Location is the file backing the store.
	Location() string

	// Close releases resources.
	Close() error
}

// Row is one table row: the canonical entry plus values of any extra columns.
type Row struct {
	models.Entry
	Extra []string
}

// Table is the in-memory form of a local store. Extra holds the names of
// non-canonical columns found on disk, kept so a rewrite does not drop them.
type Table struct {
	Extra []string
	Rows  []Row
}

// NewTable returns an empty table with the canonical columns.
func NewTable() *Table {
	return &Table{}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Header returns the canonical columns followed by any extra columns.
func (t *Table) Header() []string {
	header := make([]string, 0, len(models.Columns)+len(t.Extra))
	header = append(header, models.Columns...)
	return append(header, t.Extra...)
}

// Add appends an entry with empty extra values.
func (t *Table) Add(e models.Entry) {
	t.Rows = append(t.Rows, Row{Entry: e, Extra: make([]string, len(t.Extra))})
}

// Entries returns the rows as entries, in table order.
func (t *Table) Entries() []models.Entry {
	entries := make([]models.Entry, len(t.Rows))
	for i, r := range t.Rows {
		entries[i] = r.Entry
	}
	return entries
}

// Record returns row i in Header order.
func (t *Table) Record(i int) []string {
	r := t.Rows[i]
	rec := r.Entry.Record()
	for j := range t.Extra {
		v := ""
		if j < len(r.Extra) {
			v = r.Extra[j]
		}
		rec = append(rec, v)
	}
	return rec
}

// RemoteError is a network or service failure from a remote backend. It is
// recovered by falling back to the local store and shown as a note.
type RemoteError struct {
	Backend string
	Msg     string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Backend, e.Msg)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// LoadError is an unreadable or corrupt local store. Reads recover by
// substituting an empty canonical table; writes refuse to touch the file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
