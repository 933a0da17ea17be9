// ABOUTME: Edit resolver mapping a displayed selector back to a local row and rewriting it
// ABOUTME: Selectors are either position:date:book keys or identifier prefixes

package edit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/storage"
	"github.com/harper/readlog/internal/timeutil"
)

// MinIDPrefix is the shortest identifier prefix accepted as a selector.
const MinIDPrefix = 6

// Selector identifies one row of a displayed view.
type Selector struct {
	Position int
	Date     string
	Book     string
	ID       string
}

// SelectorFor builds the selector for the row at pos.
func SelectorFor(pos int, e models.Entry) Selector {
	return Selector{Position: pos, Date: keyDate(e.Date), Book: keyBook(e.Book), ID: e.ID}
}

// keyDate is the date as it appears in a selector: the canonical day when
// the date parses, otherwise the trimmed text with ':' replaced so the key
// still splits cleanly.
func keyDate(date string) string {
	if day, ok := timeutil.DayKey(date); ok {
		return day
	}
	return strings.ReplaceAll(strings.TrimSpace(date), ":", "-")
}

func keyBook(book string) string {
	return strings.TrimSpace(book)
}

// hasKey reports whether the selector carries a positional key.
func (s Selector) hasKey() bool {
	return s.Position >= 0 && (s.Date != "" || s.Book != "")
}

// String renders the positional form, or the identifier when there is no key.
func (s Selector) String() string {
	if !s.hasKey() {
		return s.ID
	}
	return FormatSelector(s.Position, s.Date, s.Book)
}

// FormatSelector renders the position:date:book key shown by list.
func FormatSelector(pos int, date, book string) string {
	return fmt.Sprintf("%d:%s:%s", pos, date, book)
}

// ParseSelector accepts "<pos>:<date>:<book>" or an identifier prefix of at
// least MinIDPrefix characters.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	head, rest, found := strings.Cut(s, ":")
	if found {
		pos, err := strconv.Atoi(head)
		if err != nil || pos < 0 {
			return Selector{}, &ResolveError{Selector: s, Reason: "position must be a non-negative number"}
		}
		// Selector dates never contain ':'; the book may.
		date, book, _ := strings.Cut(rest, ":")
		return Selector{Position: pos, Date: strings.TrimSpace(date), Book: strings.TrimSpace(book)}, nil
	}

	if len(s) < MinIDPrefix {
		return Selector{}, &ResolveError{Selector: s, Reason: fmt.Sprintf("use position:date:book or an id prefix of at least %d characters", MinIDPrefix)}
	}
	return Selector{Position: -1, ID: s}, nil
}

// Numbered is an entry together with the selector that addresses it.
type Numbered struct {
	Selector Selector
	Entry    models.Entry
}

// Number pairs each entry kept by keep with its selector. Positions refer to
// the unfiltered slice so they stay valid after filtering. A nil keep keeps
// every entry.
func Number(entries []models.Entry, keep func(models.Entry) bool) []Numbered {
	out := make([]Numbered, 0, len(entries))
	for i, e := range entries {
		if keep != nil && !keep(e) {
			continue
		}
		out = append(out, Numbered{Selector: SelectorFor(i, e), Entry: e})
	}
	return out
}

// ResolveError means the selector no longer matches a row, usually because
// the view changed since it was displayed.
type ResolveError struct {
	Selector string
	Reason   string
}

func (e *ResolveError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("record not found: %s", e.Selector)
	}
	return fmt.Sprintf("record not found: %s (%s)", e.Selector, e.Reason)
}

// Resolve returns the index of the row sel refers to. An identifier match
// wins; otherwise the row at the position must still carry the same date
// and book.
func Resolve(entries []models.Entry, sel Selector) (int, error) {
	if sel.ID != "" {
		idx, err := resolveID(entries, sel)
		if err == nil || !sel.hasKey() {
			return idx, err
		}
	}

	if !sel.hasKey() {
		return -1, &ResolveError{Selector: sel.String(), Reason: "empty selector"}
	}
	if sel.Position >= len(entries) {
		return -1, &ResolveError{Selector: sel.String(), Reason: "position out of range"}
	}

	e := entries[sel.Position]
	if keyDate(e.Date) != keyDate(sel.Date) || keyBook(e.Book) != keyBook(sel.Book) {
		return -1, &ResolveError{Selector: sel.String(), Reason: "row changed"}
	}
	return sel.Position, nil
}

func resolveID(entries []models.Entry, sel Selector) (int, error) {
	match := -1
	for i, e := range entries {
		if e.ID == "" || !strings.HasPrefix(e.ID, sel.ID) {
			continue
		}
		if match >= 0 {
			return -1, &ResolveError{Selector: sel.ID, Reason: "ambiguous id prefix"}
		}
		match = i
	}
	if match < 0 {
		return -1, &ResolveError{Selector: sel.ID}
	}
	return match, nil
}

// Apply overwrites the editable fields of row index with fields, keeping the
// row's identifier and extra columns, then rewrites the store.
func Apply(store storage.LocalStore, table *storage.Table, index int, fields models.Entry) error {
	if index < 0 || index >= table.Len() {
		return &ResolveError{Selector: strconv.Itoa(index), Reason: "position out of range"}
	}

	row := &table.Rows[index]
	id := row.ID
	row.Entry = fields
	row.ID = id

	if err := store.Overwrite(table); err != nil {
		return fmt.Errorf("save edit: %w", err)
	}
	return nil
}

// Update resolves sel against the local store, lets change modify a copy of
// the row, validates the result and persists it.
func Update(store storage.LocalStore, sel Selector, opts models.ValidateOptions, change func(*models.Entry)) (models.Entry, error) {
	table := store.Load()
	idx, err := Resolve(table.Entries(), sel)
	if err != nil {
		return models.Entry{}, err
	}

	updated := table.Rows[idx].Entry
	change(&updated)
	updated.Book = strings.TrimSpace(updated.Book)
	updated.Mood = models.NormalizeMood(updated.Mood, opts.ExtraMoods)
	updated.TimeOfDay = models.NormalizeTimeOfDay(updated.TimeOfDay)
	updated.Status = models.NormalizeStatus(updated.Status)
	if err := models.Check(&updated, opts); err != nil {
		return models.Entry{}, err
	}

	if err := Apply(store, table, idx, updated); err != nil {
		return models.Entry{}, err
	}
	updated.ID = table.Rows[idx].ID
	return updated, nil
}
