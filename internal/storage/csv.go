// ABOUTME: Flat-file CSV implementation of the local store
// ABOUTME: Heals legacy headers on load, keeps unknown columns, and rewrites the file atomically

package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/harper/readlog/internal/models"
)

// DefaultCSVFile is the file name of the CSV store inside the data directory.
const DefaultCSVFile = "reading_log.csv"

// columnAliases maps normalized header names to canonical columns. Keys are
// lower case with spaces, underscores and hyphens removed.
var columnAliases = map[string]string{
	"date":      models.ColDate,
	"fecha":     models.ColDate,
	"day":       models.ColDate,
	"book":      models.ColBook,
	"title":     models.ColBook,
	"libro":     models.ColBook,
	"pages":     models.ColPages,
	"páginas":   models.ColPages,
	"paginas":   models.ColPages,
	"minutes":   models.ColMinutes,
	"minutos":   models.ColMinutes,
	"mood":      models.ColMood,
	"ánimo":     models.ColMood,
	"animo":     models.ColMood,
	"timeofday": models.ColTimeOfDay,
	"time":      models.ColTimeOfDay,
	"momento":   models.ColTimeOfDay,
	"notes":     models.ColNotes,
	"notas":     models.ColNotes,
	"id":        models.ColID,
	"status":    models.ColStatus,
	"estado":    models.ColStatus,
}

// CanonicalColumn maps a header cell to its canonical column name.
func CanonicalColumn(header string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	col, ok := columnAliases[key]
	return col, ok
}

// CSVStore keeps the reading log in a single CSV file.
type CSVStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewCSVStore returns a store backed by path. The file is created on first write.
func NewCSVStore(path string, logger *zap.Logger) *CSVStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVStore{path: path, logger: logger.Named("csv")}
}

func (s *CSVStore) Name() string { return "local csv" }

// Configured is always true; the local store needs no credentials.
func (s *CSVStore) Configured() bool { return true }

func (s *CSVStore) Location() string { return s.path }

func (s *CSVStore) Close() error { return nil }

// Write appends e. It implements Store.
func (s *CSVStore) Write(_ context.Context, e models.Entry) error {
	return s.Append(e)
}

// Read returns every entry in file order. It implements Store.
func (s *CSVStore) Read(_ context.Context) ([]models.Entry, error) {
	return s.Load().Entries(), nil
}

// Append loads the table, adds e and rewrites the whole file. A file that
// exists but cannot be read is left untouched and a *LoadError is returned.
func (s *CSVStore) Append(e models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.loadStrict()
	if err != nil {
		return err
	}
	t.Add(e)
	return s.overwrite(t)
}

// Load reads the file. A missing file is an empty table; an unreadable or
// malformed one is logged and also treated as empty.
func (s *CSVStore) Load() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *CSVStore) load() *Table {
	t, err := s.loadStrict()
	if err != nil {
		s.logger.Warn("using empty table", zap.Error(err))
		return NewTable()
	}
	return t
}

// loadStrict reads the file for a write. A missing file is an empty table;
// anything else that fails is a *LoadError.
func (s *CSVStore) loadStrict() (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewTable(), nil
		}
		return nil, &LoadError{Path: s.path, Err: err}
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, &LoadError{Path: s.path, Err: err}
	}
	return t, nil
}

// Overwrite replaces the file contents with t.
func (s *CSVStore) Overwrite(t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overwrite(t)
}

func (s *CSVStore) overwrite(t *Table) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return err
	}
	if err := AtomicWrite(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Export writes the table exactly as it is stored on disk.
func (s *CSVStore) Export(w io.Writer) error {
	return WriteCSV(w, s.Load())
}

// ReadCSV parses a CSV table, mapping known headers (including legacy
// aliases) onto canonical columns. Columns absent from the header take their
// zero value; unrecognized columns are carried in Table.Extra.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := NewTable()
	canonical := make(map[int]string)
	extra := make(map[int]int)
	seen := make(map[string]bool)
	for i, name := range header {
		if col, ok := CanonicalColumn(name); ok && !seen[col] {
			seen[col] = true
			canonical[i] = col
			continue
		}
		extra[i] = len(t.Extra)
		t.Extra = append(t.Extra, name)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := Row{Extra: make([]string, len(t.Extra))}
		for i, v := range rec {
			if col, ok := canonical[i]; ok {
				row.Entry.SetField(col, v)
			} else if j, ok := extra[i]; ok {
				row.Extra[j] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteCSV writes the header and every row with RFC 4180 quoting.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range t.Rows {
		if err := cw.Write(t.Record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var _ LocalStore = (*CSVStore)(nil)
