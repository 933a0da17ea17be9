// ABOUTME: Tests for the Notion remote store adapter
// ABOUTME: Uses httptest to simulate successful writes, API errors and query results

package storage

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/notion"
)

func newTestNotionStore(t *testing.T, handler http.HandlerFunc) *NotionStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewNotionStore(t.Context(), NotionOptions{
		Client: notion.Config{Token: "secret", DatabaseID: "db123", BaseURL: server.URL},
	}, nil)
}

func TestNotionStore_Unconfigured(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	store := NewNotionStore(t.Context(), NotionOptions{
		Client: notion.Config{Token: "", DatabaseID: "db123", BaseURL: server.URL},
	}, nil)

	assert.False(t, store.Configured())
	assert.ErrorIs(t, store.Write(t.Context(), sampleEntry("Dune", 1, 1, models.AM)), ErrUnconfigured)

	_, err := store.Read(t.Context())
	assert.ErrorIs(t, err, ErrUnconfigured)
	assert.False(t, called, "unconfigured store must not perform I/O")
}

func TestNotionStore_WriteSuccess(t *testing.T) {
	var body map[string]any
	store := newTestNotionStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"object":"page","id":"p1"}`))
	})

	require.True(t, store.Configured())
	require.NoError(t, store.Write(t.Context(), sampleEntry("Dune", 50, 60, models.AM)))

	parent := body["parent"].(map[string]any)
	assert.Equal(t, "db123", parent["database_id"])
}

func TestNotionStore_WriteAPIError(t *testing.T) {
	store := newTestNotionStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(strings.Repeat("x", 500)))
	})

	err := store.Write(t.Context(), sampleEntry("Dune", 50, 60, models.AM))

	var remote *RemoteError
	require.True(t, errors.As(err, &remote), "expected RemoteError, got %v", err)
	assert.Equal(t, "notion", remote.Backend)
	assert.True(t, strings.HasPrefix(remote.Msg, "error 400: "))
	assert.LessOrEqual(t, len(remote.Msg), len("error 400: ")+200)

	var apiErr *notion.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestNotionStore_ReadMapsPages(t *testing.T) {
	store := newTestNotionStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db123/query", r.URL.Path)
		w.Write([]byte(`{
			"results": [{
				"id": "page-1",
				"properties": {
					"Book": {"title": [{"plain_text": "Dune"}]},
					"Date": {"date": {"start": "2024-01-01"}},
					"Pages": {"number": 50},
					"Minutes": {"number": null},
					"Mood": {"select": {"name": "Focused"}},
					"TimeOfDay": {"select": null}
				}
			}],
			"has_more": false
		}`))
	})

	entries, err := store.Read(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "page-1", e.ID)
	assert.Equal(t, "Dune", e.Book)
	assert.Equal(t, "2024-01-01", e.Date)
	assert.Equal(t, 50, e.Pages)
	assert.Equal(t, 0, e.Minutes)
	assert.Equal(t, "Focused", e.Mood)
	assert.Equal(t, "", e.TimeOfDay)
}

func TestNotionStore_ReadFailureIsEmpty(t *testing.T) {
	store := newTestNotionStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	entries, err := store.Read(t.Context())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
