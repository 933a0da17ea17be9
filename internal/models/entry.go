// ABOUTME: Entry model representing a single reading session
// ABOUTME: Defines the canonical column order, mood and time-of-day choices, and record conversion

package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Canonical column names, in on-disk order.
const (
	ColDate      = "Date"
	ColBook      = "Book"
	ColPages     = "Pages"
	ColMinutes   = "Minutes"
	ColMood      = "Mood"
	ColTimeOfDay = "TimeOfDay"
	ColNotes     = "Notes"
	ColID        = "ID"
	ColStatus    = "Status"
)

// Columns is the stable field order used for serialization.
// Status comes last so files written before it existed keep their column positions.
var Columns = []string{ColDate, ColBook, ColPages, ColMinutes, ColMood, ColTimeOfDay, ColNotes, ColID, ColStatus}

// IsNumericColumn reports whether col holds an integer count.
func IsNumericColumn(col string) bool {
	return col == ColPages || col == ColMinutes
}

// Time of day values.
const (
	AM = "AM"
	PM = "PM"
)

// Reading status values. Status is optional.
const (
	StatusReading   = "Reading"
	StatusFinished  = "Finished"
	StatusRereading = "Rereading"
	StatusAbandoned = "Abandoned"
)

// Statuses is the status choice set, in display order.
var Statuses = []string{StatusReading, StatusFinished, StatusRereading, StatusAbandoned}

var statusAliases = map[string]string{
	"leyendo":    StatusReading,
	"terminado":  StatusFinished,
	"releyendo":  StatusRereading,
	"abandonado": StatusAbandoned,
}

// DefaultMood is used when no mood is given.
const DefaultMood = "Neutral"

// DefaultMoods is the built-in mood choice set, in display order.
var DefaultMoods = []string{"Focused", "Relaxed", "Tired", "Rushed", "Neutral", "Anxious", "Angry", "Sad"}

// Entry represents one logged reading session.
type Entry struct {
	ID        string `json:"id"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Book      string `json:"book" validate:"required"`
	Pages     int    `json:"pages" validate:"gte=0"`
	Minutes   int    `json:"minutes" validate:"gte=0"`
	Mood      string `json:"mood" validate:"required"`
	TimeOfDay string `json:"time_of_day" validate:"oneof=AM PM"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=Reading Finished Rereading Abandoned"`
}

// NewID returns a fresh entry identifier.
func NewID() string {
	return uuid.New().String()
}

// NewEntry returns a copy of e carrying a fresh identifier.
func NewEntry(e Entry) Entry {
	e.ID = NewID()
	return e
}

// EnsureID assigns an identifier if the entry has none.
func (e *Entry) EnsureID() {
	if e.ID == "" {
		e.ID = NewID()
	}
}

// Equal reports whether both entries carry identical field values.
func (e Entry) Equal(other Entry) bool {
	return e == other
}

// SameContent compares every field except the identifier.
func (e Entry) SameContent(other Entry) bool {
	e.ID, other.ID = "", ""
	return e == other
}

// Field returns the string form of the named column.
func (e Entry) Field(col string) string {
	switch col {
	case ColDate:
		return e.Date
	case ColBook:
		return e.Book
	case ColPages:
		return strconv.Itoa(e.Pages)
	case ColMinutes:
		return strconv.Itoa(e.Minutes)
	case ColMood:
		return e.Mood
	case ColTimeOfDay:
		return e.TimeOfDay
	case ColNotes:
		return e.Notes
	case ColID:
		return e.ID
	case ColStatus:
		return e.Status
	}
	return ""
}

// SetField assigns the named column from its string form.
// Numeric columns coerce with Count; unknown columns are ignored.
func (e *Entry) SetField(col, value string) {
	switch col {
	case ColDate:
		e.Date = value
	case ColBook:
		e.Book = value
	case ColPages:
		e.Pages = Count(value)
	case ColMinutes:
		e.Minutes = Count(value)
	case ColMood:
		e.Mood = value
	case ColTimeOfDay:
		e.TimeOfDay = value
	case ColNotes:
		e.Notes = value
	case ColID:
		e.ID = value
	case ColStatus:
		e.Status = value
	}
}

// Record returns the entry's fields in Columns order.
func (e Entry) Record() []string {
	rec := make([]string, len(Columns))
	for i, col := range Columns {
		rec[i] = e.Field(col)
	}
	return rec
}

// EntryFromRecord builds an entry from a record in Columns order.
// Short records leave the missing fields at their zero value.
func EntryFromRecord(rec []string) Entry {
	var e Entry
	for i, col := range Columns {
		if i < len(rec) {
			e.SetField(col, rec[i])
		}
	}
	return e
}

// Count coerces v to a non-negative integer. Anything that is not a finite
// number, including negative values, becomes 0. Fractions are truncated.
func Count(v any) int {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// NormalizeTimeOfDay upper-cases AM/PM input. Other values are returned trimmed.
func NormalizeTimeOfDay(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case AM:
		return AM
	case PM:
		return PM
	}
	return s
}

// NormalizeStatus maps s onto a status label case-insensitively, accepting
// the Spanish labels used by older logs. Unknown values are returned trimmed.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	for _, known := range Statuses {
		if strings.EqualFold(known, s) {
			return known
		}
	}
	if alias, ok := statusAliases[strings.ToLower(s)]; ok {
		return alias
	}
	return s
}

// NormalizeMood maps s onto a known label case-insensitively. Unknown labels are
// kept as typed; an empty mood becomes DefaultMood.
func NormalizeMood(s string, extra []string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMood
	}
	for _, known := range append(append([]string{}, DefaultMoods...), extra...) {
		if strings.EqualFold(known, s) {
			return known
		}
	}
	return s
}

// MoodChoices returns the selectable moods: defaults, then configured extras,
// then any unseen moods found in entries, without duplicates.
func MoodChoices(entries []Entry, extra []string) []string {
	seen := make(map[string]bool)
	var choices []string
	add := func(m string) {
		m = strings.TrimSpace(m)
		key := strings.ToLower(m)
		if m == "" || seen[key] {
			return
		}
		seen[key] = true
		choices = append(choices, m)
	}

	for _, m := range DefaultMoods {
		add(m)
	}
	for _, m := range extra {
		add(m)
	}
	for _, e := range entries {
		add(e.Mood)
	}
	return choices
}
