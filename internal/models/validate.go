// ABOUTME: Write-time validation turning raw user input into a canonical Entry
// ABOUTME: Trims text, coerces counts, normalizes date/mood/time-of-day, reports every bad field

package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harper/readlog/internal/timeutil"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RawEntry is unvalidated input from a form, flag set or tool call.
// Pages and Minutes accept any value; non-numeric input coerces to 0.
type RawEntry struct {
	Date      string
	Book      string
	Pages     any
	Minutes   any
	Mood      string
	TimeOfDay string
	Notes     string
	Status    string
}

// ValidateOptions controls write-time policy.
type ValidateOptions struct {
	// RequireProgress rejects entries where both pages and minutes are zero.
	RequireProgress bool
	// ExtraMoods are configured labels recognized case-insensitively.
	ExtraMoods []string
}

// Problem describes one invalid field.
type Problem struct {
	Field  string
	Reason string
}

// ValidationError reports bad user input. Nothing is persisted when it occurs.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s %s", strings.ToLower(p.Field), p.Reason))
	}
	return "invalid entry: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the problems.
func (e *ValidationError) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

// Validate converts raw input into an Entry or returns a *ValidationError.
// The returned entry has no ID; callers assign one when persisting a new row.
func Validate(raw RawEntry, opts ValidateOptions) (Entry, error) {
	e := Entry{
		Date:      strings.TrimSpace(raw.Date),
		Book:      strings.TrimSpace(raw.Book),
		Pages:     Count(raw.Pages),
		Minutes:   Count(raw.Minutes),
		Mood:      NormalizeMood(raw.Mood, opts.ExtraMoods),
		TimeOfDay: NormalizeTimeOfDay(raw.TimeOfDay),
		Notes:     strings.TrimSpace(strings.ReplaceAll(raw.Notes, "\r\n", "\n")),
		Status:    NormalizeStatus(raw.Status),
	}
	return e, Check(&e, opts)
}

// Check validates an already-shaped entry in place, normalizing its date.
func Check(e *Entry, opts ValidateOptions) error {
	verr := &ValidationError{}

	if e.Date != "" {
		if day, err := timeutil.NormalizeDate(e.Date); err == nil {
			e.Date = day
		}
	}

	if err := validate.Struct(e); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate entry: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.Problems = append(verr.Problems, Problem{Field: fe.Field(), Reason: reasonFor(fe)})
		}
	}

	if opts.RequireProgress && e.Pages == 0 && e.Minutes == 0 {
		verr.Problems = append(verr.Problems, Problem{Field: "Progress", Reason: "needs pages or minutes greater than zero"})
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date like 2024-01-31"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gte":
		return "must not be negative"
	}
	return "is invalid"
}
