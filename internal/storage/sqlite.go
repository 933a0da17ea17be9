// ABOUTME: SQLite implementation of the local store using modernc.org/sqlite (pure Go)
// ABOUTME: Keeps sessions in one table in insertion order and heals missing columns on open

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/harper/readlog/internal/models"
)

// DefaultSQLiteFile is the database file name inside the data directory.
const DefaultSQLiteFile = "readlog.db"

// sqlColumns maps canonical columns to their SQL column names.
var sqlColumns = []struct {
	col  string
	name string
}{
	{models.ColDate, "date"},
	{models.ColBook, "book"},
	{models.ColPages, "pages"},
	{models.ColMinutes, "minutes"},
	{models.ColMood, "mood"},
	{models.ColTimeOfDay, "time_of_day"},
	{models.ColNotes, "notes"},
	{models.ColID, "id"},
	{models.ColStatus, "status"},
}

// columnDecl returns the SQL declaration for a canonical column.
func columnDecl(col string) string {
	if models.IsNumericColumn(col) {
		return "INTEGER NOT NULL DEFAULT 0"
	}
	return "TEXT NOT NULL DEFAULT ''"
}

// SQLiteStore keeps the reading log in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
	extra  []string
}

// NewSQLiteStore opens or creates the database at dbPath.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), DefaultDirPerms); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db, path: dbPath, logger: logger.Named("sqlite")}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the entries table, adds any canonical column an older
// database lacks, and records the non-canonical columns it carries.
func (s *SQLiteStore) initSchema() error {
	defs := make([]string, 0, len(sqlColumns)+1)
	defs = append(defs, "rowid INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, c := range sqlColumns {
		defs = append(defs, c.name+" "+columnDecl(c.col))
	}
	schema := "CREATE TABLE IF NOT EXISTS entries (\n\t" + strings.Join(defs, ",\n\t") + "\n)"
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create entries table: %w", err)
	}

	existing, err := s.tableColumns()
	if err != nil {
		return err
	}

	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[strings.ToLower(name)] = true
	}
	for _, c := range sqlColumns {
		if have[c.name] {
			continue
		}
		s.logger.Info("adding missing column", zap.String("column", c.name))
		if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE entries ADD COLUMN %s %s", c.name, columnDecl(c.col))); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}

	s.extra = nil
	for _, name := range existing {
		if !isKnownSQLColumn(name) {
			s.extra = append(s.extra, name)
		}
	}
	return nil
}

func (s *SQLiteStore) tableColumns() ([]string, error) {
	rows, err := s.db.Query("PRAGMA table_info(entries)")
	if err != nil {
		return nil, fmt.Errorf("read table info: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func isKnownSQLColumn(name string) bool {
	if strings.EqualFold(name, "rowid") {
		return true
	}
	for _, c := range sqlColumns {
		if strings.EqualFold(name, c.name) {
			return true
		}
	}
	return false
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *SQLiteStore) Name() string { return "local sqlite" }

// Configured is always true; the local store needs no credentials.
func (s *SQLiteStore) Configured() bool { return true }

func (s *SQLiteStore) Location() string { return s.path }

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Write appends e. It implements Store.
func (s *SQLiteStore) Write(_ context.Context, e models.Entry) error {
	return s.Append(e)
}

// Read returns every entry in insertion order. It implements Store.
func (s *SQLiteStore) Read(_ context.Context) ([]models.Entry, error) {
	return s.Load().Entries(), nil
}

// Append inserts one row.
func (s *SQLiteStore) Append(e models.Entry) error {
	if _, err := s.db.Exec(s.insertSQL(nil), entryArgs(e, nil)...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// Load returns the whole table ordered by insertion. Query failures are
// logged and yield an empty table.
func (s *SQLiteStore) Load() *Table {
	t, err := s.load()
	if err != nil {
		s.logger.Warn("using empty table", zap.Error(&LoadError{Path: s.path, Err: err}))
		return NewTable()
	}
	return t
}

func (s *SQLiteStore) load() (*Table, error) {
	cols := make([]string, 0, len(sqlColumns)+len(s.extra))
	for _, c := range sqlColumns {
		cols = append(cols, c.name)
	}
	for _, name := range s.extra {
		cols = append(cols, quoteIdent(name))
	}

	rows, err := s.db.Query("SELECT " + strings.Join(cols, ", ") + " FROM entries ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	t := &Table{Extra: append([]string(nil), s.extra...)}
	for rows.Next() {
		row, err := s.scanRow(rows, len(cols))
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

// scanRow reads values loosely so legacy databases with NULLs or text in
// numeric columns still load.
func (s *SQLiteStore) scanRow(rows *sql.Rows, n int) (Row, error) {
	vals := make([]any, n)
	ptrs := make([]any, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return Row{}, fmt.Errorf("scan entry: %w", err)
	}

	var row Row
	for i, c := range sqlColumns {
		row.Entry.SetField(c.col, cast.ToString(vals[i]))
	}
	for _, v := range vals[len(sqlColumns):] {
		row.Extra = append(row.Extra, cast.ToString(v))
	}
	return row, nil
}

// Overwrite replaces every row inside one transaction.
func (s *SQLiteStore) Overwrite(t *Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	have := make(map[string]bool)
	for _, name := range s.extra {
		have[name] = true
	}
	added := []string{}
	for _, name := range t.Extra {
		if have[name] || isKnownSQLColumn(name) {
			continue
		}
		if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE entries ADD COLUMN %s TEXT NOT NULL DEFAULT ''", quoteIdent(name))); err != nil {
			return fmt.Errorf("add column %s: %w", name, err)
		}
		have[name] = true
		added = append(added, name)
	}

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	extra := make([]string, 0, len(t.Extra))
	for _, name := range t.Extra {
		if !isKnownSQLColumn(name) {
			extra = append(extra, name)
		}
	}
	stmt, err := tx.Prepare(s.insertSQL(extra))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Rows {
		if _, err := stmt.Exec(entryArgs(r.Entry, extraValues(t, r, extra))...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.extra = append(s.extra, added...)
	return nil
}

// extraValues picks r's values for the named extra columns.
func extraValues(t *Table, r Row, names []string) []string {
	vals := make([]string, len(names))
	for i, name := range names {
		for j, have := range t.Extra {
			if have == name && j < len(r.Extra) {
				vals[i] = r.Extra[j]
				break
			}
		}
	}
	return vals
}

func (s *SQLiteStore) insertSQL(extra []string) string {
	cols := make([]string, 0, len(sqlColumns)+len(extra))
	for _, c := range sqlColumns {
		cols = append(cols, c.name)
	}
	for _, name := range extra {
		cols = append(cols, quoteIdent(name))
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return "INSERT INTO entries (" + strings.Join(cols, ", ") + ") VALUES (" + marks + ")"
}

func entryArgs(e models.Entry, extra []string) []any {
	args := []any{e.Date, e.Book, e.Pages, e.Minutes, e.Mood, e.TimeOfDay, e.Notes, e.ID, e.Status}
	for _, v := range extra {
		args = append(args, v)
	}
	return args
}

// Export writes the table in the CSV format used by CSVStore.
func (s *SQLiteStore) Export(w io.Writer) error {
	return WriteCSV(w, s.Load())
}

var _ LocalStore = (*SQLiteStore)(nil)
