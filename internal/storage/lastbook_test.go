// ABOUTME: Tests for the last-book sidecar file
// ABOUTME: Covers set/get, blank titles and silent failure on missing or corrupt files

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastBook_SetGet(t *testing.T) {
	lb := NewLastBook(filepath.Join(t.TempDir(), DefaultLastBookFile))

	assert.Equal(t, "", lb.Get(), "missing file reads as empty")

	require.NoError(t, lb.Set("  Dune  "))
	assert.Equal(t, "Dune", lb.Get())

	require.NoError(t, lb.Set("Emma"))
	assert.Equal(t, "Emma", lb.Get())
}

func TestLastBook_BlankIgnored(t *testing.T) {
	lb := NewLastBook(filepath.Join(t.TempDir(), DefaultLastBookFile))
	require.NoError(t, lb.Set("Dune"))
	require.NoError(t, lb.Set("   "))
	assert.Equal(t, "Dune", lb.Get())
}

func TestLastBook_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultLastBookFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	assert.Equal(t, "", NewLastBook(path).Get())
}
