// ABOUTME: Tests for the persistence coordinator
// ABOUTME: Covers fallback on unconfigured or failing remotes, attempt reporting and unified loading

package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/storage"
)

// fakeRemote is an in-memory remote store with switchable failure modes.
type fakeRemote struct {
	name       string
	configured bool
	writeErr   error
	entries    []models.Entry
	writes     int
	reads      int
}

func (f *fakeRemote) Name() string { return f.name }

func (f *fakeRemote) Configured() bool { return f.configured }

func (f *fakeRemote) Write(_ context.Context, e models.Entry) error {
	f.writes++
	if !f.configured {
		return storage.ErrUnconfigured
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeRemote) Read(_ context.Context) ([]models.Entry, error) {
	f.reads++
	if !f.configured {
		return nil, storage.ErrUnconfigured
	}
	return f.entries, nil
}

func newLocal(t *testing.T) (*storage.CSVStore, *storage.LastBook) {
	t.Helper()
	dir := t.TempDir()
	return storage.NewCSVStore(filepath.Join(dir, storage.DefaultCSVFile), nil),
		storage.NewLastBook(filepath.Join(dir, storage.DefaultLastBookFile))
}

func entry(book string) models.Entry {
	return models.Entry{Date: "2024-01-01", Book: book, Pages: 10, Minutes: 5, Mood: "Focused", TimeOfDay: models.AM}
}

func TestSave_RemoteSuccess(t *testing.T) {
	local, lb := newLocal(t)
	remote := &fakeRemote{name: "notion", configured: true}
	c := New(local, lb, nil, remote)

	result, err := c.Save(t.Context(), entry("Dune"))
	require.NoError(t, err)

	assert.Equal(t, "notion", result.SavedTo)
	assert.False(t, result.FellBack())
	assert.Equal(t, "saved to notion", result.Message())
	assert.NotEmpty(t, result.Entry.ID)
	assert.Len(t, remote.entries, 1)
	assert.Equal(t, 0, local.Load().Len(), "stores are alternatives, not replicas")
	assert.Equal(t, "Dune", c.LastBook())
}

func TestSave_UnconfiguredRemoteSkipped(t *testing.T) {
	local, lb := newLocal(t)
	remote := &fakeRemote{name: "notion"}
	c := New(local, lb, nil, remote)

	result, err := c.Save(t.Context(), entry("Dune"))
	require.NoError(t, err)

	assert.Equal(t, 0, remote.writes, "unconfigured store must not be written")
	assert.Equal(t, local.Name(), result.SavedTo)
	require.Len(t, result.Attempts, 2)
	assert.Equal(t, OutcomeSkipped, result.Attempts[0].Outcome)
	assert.Equal(t, OutcomeSaved, result.Attempts[1].Outcome)
	assert.False(t, result.FellBack())
	assert.Equal(t, 1, local.Load().Len())
}

func TestSave_FailingRemoteFallsBack(t *testing.T) {
	local, lb := newLocal(t)
	remote := &fakeRemote{name: "notion", configured: true, writeErr: &storage.RemoteError{Backend: "notion", Msg: "error 400: bad"}}
	c := New(local, lb, nil, remote)

	result, err := c.Save(t.Context(), entry("Dune"))
	require.NoError(t, err)

	assert.True(t, result.FellBack())
	assert.Equal(t, "notion: error 400: bad; saved to local csv", result.Message())

	got := local.Load().Entries()
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(result.Entry))
}

func TestSave_KeepsExistingID(t *testing.T) {
	local, lb := newLocal(t)
	c := New(local, lb, nil)

	e := entry("Dune")
	e.ID = "fixed-id"
	result, err := c.Save(t.Context(), e)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", result.Entry.ID)
}

func TestSave_AllStoresFail(t *testing.T) {
	dir := t.TempDir()
	// A directory where the CSV file should be makes every rewrite fail.
	blocked := filepath.Join(dir, storage.DefaultCSVFile)
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "x"), 0o700))
	local := storage.NewCSVStore(blocked, nil)
	remoteErr := &storage.RemoteError{Backend: "notion", Msg: "timed out"}
	remote := &fakeRemote{name: "notion", configured: true, writeErr: remoteErr}
	lb := storage.NewLastBook(filepath.Join(dir, storage.DefaultLastBookFile))
	c := New(local, lb, nil, remote)

	result, err := c.Save(t.Context(), entry("Dune"))
	require.Error(t, err)
	assert.False(t, result.Saved())

	var re *storage.RemoteError
	assert.True(t, errors.As(err, &re), "remote failure should be reachable through the error")
	assert.Equal(t, "", c.LastBook(), "last book is only updated after a successful save")
}

func TestLoadUnified_PrefersRemoteWithData(t *testing.T) {
	local, lb := newLocal(t)
	require.NoError(t, local.Append(entry("Local Book")))
	remote := &fakeRemote{name: "notion", configured: true, entries: []models.Entry{entry("Remote Book")}}
	c := New(local, lb, nil, remote)

	view := c.LoadUnified(t.Context())
	assert.Equal(t, "notion", view.Source)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "Remote Book", view.Entries[0].Book)
}

func TestLoadUnified_EmptyRemoteFallsBackToLocal(t *testing.T) {
	local, lb := newLocal(t)
	require.NoError(t, local.Append(entry("Local Book")))
	remote := &fakeRemote{name: "notion", configured: true}
	c := New(local, lb, nil, remote)

	view := c.LoadUnified(t.Context())
	assert.Equal(t, local.Name(), view.Source)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "Local Book", view.Entries[0].Book)
}

func TestLoadUnified_UnconfiguredRemoteNotRead(t *testing.T) {
	local, lb := newLocal(t)
	remote := &fakeRemote{name: "notion"}
	c := New(local, lb, nil, remote)

	view := c.LoadUnified(t.Context())
	assert.Equal(t, 0, remote.reads)
	assert.Empty(t, view.Entries)
	assert.Equal(t, local.Name(), view.Source)
}

func TestLoadUnified_NotCached(t *testing.T) {
	local, lb := newLocal(t)
	c := New(local, lb, nil)

	assert.Empty(t, c.LoadUnified(t.Context()).Entries)
	require.NoError(t, local.Append(entry("Dune")))
	assert.Len(t, c.LoadUnified(t.Context()).Entries, 1)
}

func TestFallbackProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)
	dir := t.TempDir()

	properties.Property("entry lands locally when remote is unconfigured or failing", prop.ForAll(
		func(book string, configured bool, pages int) bool {
			sub, err := os.MkdirTemp(dir, "fb")
			if err != nil {
				return false
			}
			local := storage.NewCSVStore(filepath.Join(sub, storage.DefaultCSVFile), nil)
			remote := &fakeRemote{name: "notion", configured: configured, writeErr: errors.New("boom")}
			c := New(local, nil, nil, remote)

			e := entry("B" + book)
			e.Pages = pages
			result, err := c.Save(context.Background(), e)
			if err != nil || result.SavedTo != local.Name() {
				return false
			}

			got := local.Load().Entries()
			return len(got) == 1 && got[0].Equal(result.Entry)
		},
		gen.AlphaString(),
		gen.Bool(),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
