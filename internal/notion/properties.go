// ABOUTME: Mapping between reading entries and Notion page properties
// ABOUTME: Builds create-page payloads and extracts typed values defensively from query results

package notion

import (
	"github.com/harper/readlog/internal/models"
)

// Property kinds understood by Extract.
const (
	KindTitle  = "title"
	KindDate   = "date"
	KindNumber = "number"
	KindSelect = "select"
)

// Schema names the database properties each entry field is stored in.
type Schema struct {
	Book      string `yaml:"book" default:"Book"`
	Date      string `yaml:"date" default:"Date"`
	Pages     string `yaml:"pages" default:"Pages"`
	Minutes   string `yaml:"minutes" default:"Minutes"`
	Mood      string `yaml:"mood" default:"Mood"`
	TimeOfDay string `yaml:"time_of_day" default:"TimeOfDay"`
	Status    string `yaml:"status" default:"Status"`
}

// DefaultSchema returns the default property names.
func DefaultSchema() Schema {
	return Schema{
		Book:      "Book",
		Date:      "Date",
		Pages:     "Pages",
		Minutes:   "Minutes",
		Mood:      "Mood",
		TimeOfDay: "TimeOfDay",
		Status:    "Status",
	}
}

// BuildPage maps e onto the database properties. Notes become a single
// paragraph block in the page body. An empty status is left unset since
// Notion rejects select options without a name.
func BuildPage(e models.Entry, schema Schema) Page {
	props := map[string]any{
		schema.Book: map[string]any{
			"title": []any{textObject(e.Book)},
		},
		schema.Date: map[string]any{
			"date": map[string]any{"start": e.Date},
		},
		schema.Pages:   map[string]any{"number": e.Pages},
		schema.Minutes: map[string]any{"number": e.Minutes},
		schema.Mood: map[string]any{
			"select": map[string]any{"name": e.Mood},
		},
		schema.TimeOfDay: map[string]any{
			"select": map[string]any{"name": e.TimeOfDay},
		},
	}

	if e.Status != "" {
		props[schema.Status] = map[string]any{
			"select": map[string]any{"name": e.Status},
		}
	}

	page := Page{Properties: props}
	if e.Notes != "" {
		page.Children = []any{
			map[string]any{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]any{
					"rich_text": []any{textObject(e.Notes)},
				},
			},
		}
	}
	return page
}

func textObject(s string) map[string]any {
	return map[string]any{
		"type": "text",
		"text": map[string]any{"content": s},
	}
}

// EntryFromPage rebuilds an entry from a query result. Any missing or
// malformed property falls back to its zero value.
func EntryFromPage(p PageObject, schema Schema) models.Entry {
	return models.Entry{
		ID:        p.ID,
		Date:      Date(p.Properties, schema.Date),
		Book:      Title(p.Properties, schema.Book),
		Pages:     models.Count(Number(p.Properties, schema.Pages)),
		Minutes:   models.Count(Number(p.Properties, schema.Minutes)),
		Mood:      Select(p.Properties, schema.Mood),
		TimeOfDay: Select(p.Properties, schema.TimeOfDay),
		Status:    Select(p.Properties, schema.Status),
	}
}

// Extract pulls the raw value of property name of the given kind, or nil
// when the shape does not match.
func Extract(props map[string]any, name, kind string) any {
	prop, ok := props[name].(map[string]any)
	if !ok {
		return nil
	}
	switch kind {
	case KindTitle:
		return dig(prop, "title", 0, "plain_text")
	case KindDate:
		return dig(prop, "date", "start")
	case KindNumber:
		return prop["number"]
	case KindSelect:
		return dig(prop, "select", "name")
	}
	return nil
}

// Title returns the first plain-text fragment of a title property.
func Title(props map[string]any, name string) string {
	return stringValue(Extract(props, name, KindTitle))
}

// Date returns the start of a date property.
func Date(props map[string]any, name string) string {
	return stringValue(Extract(props, name, KindDate))
}

// Number returns a number property, or 0.
func Number(props map[string]any, name string) float64 {
	switch v := Extract(props, name, KindNumber).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Select returns the option name of a select property.
func Select(props map[string]any, name string) string {
	return stringValue(Extract(props, name, KindSelect))
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// dig walks nested maps (string keys) and slices (int keys).
func dig(v any, path ...any) any {
	for _, key := range path {
		switch k := key.(type) {
		case string:
			m, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			v = m[k]
		case int:
			s, ok := v.([]any)
			if !ok || k < 0 || k >= len(s) {
				return nil
			}
			v = s[k]
		default:
			return nil
		}
	}
	return v
}
