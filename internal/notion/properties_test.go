// ABOUTME: Tests for entry/page property mapping
// ABOUTME: Covers BuildPage shape, custom property names and defensive extraction of malformed data

package notion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/readlog/internal/models"
)

func TestBuildPage(t *testing.T) {
	e := models.Entry{Date: "2024-01-01", Book: "Dune", Pages: 50, Minutes: 60, Mood: "Focused", TimeOfDay: models.AM, Notes: "spice"}

	page := BuildPage(e, DefaultSchema())

	data, err := json.Marshal(page)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	props := got["properties"].(map[string]any)
	assert.Equal(t, "Dune", dig(props, "Book", "title", 0, "text", "content"))
	assert.Equal(t, "2024-01-01", dig(props, "Date", "date", "start"))
	assert.Equal(t, float64(50), dig(props, "Pages", "number"))
	assert.Equal(t, float64(60), dig(props, "Minutes", "number"))
	assert.Equal(t, "Focused", dig(props, "Mood", "select", "name"))
	assert.Equal(t, "AM", dig(props, "TimeOfDay", "select", "name"))

	children := got["children"].([]any)
	require.Len(t, children, 1)
	assert.Equal(t, "spice", dig(children[0], "paragraph", "rich_text", 0, "text", "content"))
}

func TestBuildPage_NoNotesNoChildren(t *testing.T) {
	page := BuildPage(models.Entry{Book: "Dune"}, DefaultSchema())
	assert.Empty(t, page.Children)

	data, err := json.Marshal(page)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "children")
}

func TestBuildPage_Status(t *testing.T) {
	schema := DefaultSchema()
	page := BuildPage(models.Entry{Book: "Dune"}, schema)
	assert.NotContains(t, page.Properties, schema.Status, "empty status is not sent")

	page = BuildPage(models.Entry{Book: "Dune", Status: models.StatusAbandoned}, schema)
	assert.Equal(t, "Abandoned", dig(page.Properties, "Status", "select", "name"))

	back := EntryFromPage(PageObject{Properties: page.Properties}, schema)
	assert.Equal(t, models.StatusAbandoned, back.Status)
}

func TestBuildPage_CustomSchema(t *testing.T) {
	schema := DefaultSchema()
	schema.Book = "Libro"
	schema.Pages = "Páginas"

	page := BuildPage(models.Entry{Book: "Dune", Pages: 3}, schema)
	assert.Contains(t, page.Properties, "Libro")
	assert.Contains(t, page.Properties, "Páginas")
	assert.NotContains(t, page.Properties, "Book")
}

func TestExtract_Defensive(t *testing.T) {
	props := map[string]any{
		"Book":      map[string]any{"title": []any{}},
		"Date":      map[string]any{"date": nil},
		"Pages":     map[string]any{"number": "12"},
		"Minutes":   "not a map",
		"Mood":      map[string]any{"select": map[string]any{"name": 7}},
		"TimeOfDay": map[string]any{"select": map[string]any{"name": "PM"}},
	}

	assert.Equal(t, "", Title(props, "Book"))
	assert.Equal(t, "", Date(props, "Date"))
	assert.Equal(t, float64(0), Number(props, "Pages"))
	assert.Equal(t, float64(0), Number(props, "Minutes"))
	assert.Equal(t, "", Select(props, "Mood"))
	assert.Equal(t, "PM", Select(props, "TimeOfDay"))
	assert.Equal(t, "", Title(props, "Missing"))
	assert.Nil(t, Extract(props, "TimeOfDay", "rollup"))
	assert.Nil(t, Extract(nil, "Book", KindTitle))
}

func TestEntryFromPage(t *testing.T) {
	var p PageObject
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "abc",
		"properties": {
			"Book": {"title": [{"plain_text": "Dune"}, {"plain_text": " ignored"}]},
			"Date": {"date": {"start": "2024-01-01"}},
			"Pages": {"number": 12.7},
			"Minutes": {"number": -3},
			"Mood": {"select": {"name": "Tired"}},
			"TimeOfDay": {"select": {"name": "PM"}}
		}
	}`), &p))

	e := EntryFromPage(p, DefaultSchema())
	assert.Equal(t, models.Entry{ID: "abc", Date: "2024-01-01", Book: "Dune", Pages: 12, Minutes: 0, Mood: "Tired", TimeOfDay: "PM"}, e)
}
