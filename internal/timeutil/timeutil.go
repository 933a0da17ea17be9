// ABOUTME: Time utility functions for reading-session dates and period filters
// ABOUTME: Parses loose date input into ISO days and provides today/week/month boundaries

package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical on-disk layout for entry dates.
const DateLayout = "2006-01-02"

// inputLayouts are accepted by ParseDate after the period shortcuts.
var inputLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// StartOfToday returns midnight (00:00:00) of the current day in local time
func StartOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfYesterday returns midnight (00:00:00) of yesterday in local time
func StartOfYesterday() time.Time {
	return StartOfToday().AddDate(0, 0, -1)
}

// StartOfWeek returns midnight of the most recent Sunday in local time
// Note: Week starts on Sunday
func StartOfWeek() time.Time {
	today := StartOfToday()
	weekday := int(today.Weekday())
	return today.AddDate(0, 0, -weekday)
}

// StartOfMonth returns midnight of the first day of the current month in local time
func StartOfMonth() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ParsePeriod converts a period string to a time.Time representing the cutoff
// Supported values: "today", "yesterday", "week", "month"
func ParsePeriod(period string) (time.Time, bool) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "today":
		return StartOfToday(), true
	case "yesterday":
		return StartOfYesterday(), true
	case "week":
		return StartOfWeek(), true
	case "month":
		return StartOfMonth(), true
	default:
		return time.Time{}, false
	}
}

// ParseDate parses user or stored date input. "today" and "yesterday" are
// accepted alongside ISO dates, RFC3339 timestamps and slash-separated dates.
// The result carries no time-of-day component.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	switch strings.ToLower(s) {
	case "today":
		return utcDay(StartOfToday()), nil
	case "yesterday":
		return utcDay(StartOfYesterday()), nil
	}

	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return utcDay(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse date %q: use today, yesterday, or YYYY-MM-DD format", s)
}

// NormalizeDate parses s and formats it with DateLayout.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// FormatDate formats t as a canonical entry date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayKey returns the canonical day for s and whether s was parsable.
// Aggregations use it to drop rows with malformed dates.
func DayKey(s string) (string, bool) {
	t, err := ParseDate(s)
	if err != nil {
		return "", false
	}
	return FormatDate(t), true
}

// OnOrAfter reports whether the entry date s falls on or after cutoff's day.
// Unparsable dates never match.
func OnOrAfter(s string, cutoff time.Time) bool {
	t, err := ParseDate(s)
	if err != nil {
		return false
	}
	return !t.Before(utcDay(cutoff))
}

// utcDay keeps the calendar day of t and drops its clock and zone.
func utcDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
