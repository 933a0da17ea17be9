// ABOUTME: Tests for command helpers and an end-to-end run of the CLI
// ABOUTME: Runs commands against temp config and data directories with Notion unconfigured

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/readlog/internal/config"
	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/persist"
	"github.com/harper/readlog/internal/stats"
	"github.com/harper/readlog/internal/storage"
)

func TestClockHalf(t *testing.T) {
	assert.Equal(t, models.AM, clockHalf(time.Date(2024, 1, 1, 11, 59, 0, 0, time.UTC)))
	assert.Equal(t, models.PM, clockHalf(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestMaskID(t *testing.T) {
	assert.Equal(t, "short", maskID("short"))
	assert.Equal(t, "abcd…6789", maskID("abcdef0123456789"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", shortID("1234567890"))
	assert.Equal(t, "", shortID(""))
}

func TestNumberView(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	view := persist.View{Source: "local csv", Entries: []models.Entry{
		{Date: "2000-01-01", Book: "Old"},
		{Date: today, Book: "A"},
		{Date: today, Book: "B"},
		{Date: "not a date", Book: "Broken"},
	}}

	rows := numberView(view, "month", 0)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Selector.Position)

	rows = numberView(view, "", 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[0].Entry.Book)
	assert.Equal(t, "Broken", rows[1].Entry.Book)
}

func TestPrintEntries_RemoteViewHidesSelectors(t *testing.T) {
	view := persist.View{Source: "notion", Entries: []models.Entry{
		{ID: "page-id-1234567", Date: "2024-01-01", Book: "Dune", Pages: 3},
	}}
	var buf bytes.Buffer
	printEntries(&buf, view, numberView(view, "", 0), false)

	out := buf.String()
	assert.Contains(t, out, "page-id-")
	assert.NotContains(t, out, "0:2024-01-01:Dune")
	assert.Contains(t, out, "--local")
}

func TestPrintEntries_ShowsStatus(t *testing.T) {
	view := persist.View{Source: "local csv", Entries: []models.Entry{
		{Date: "2024-01-01", Book: "Dune", Pages: 3, Status: models.StatusFinished},
		{Date: "2024-01-02", Book: "Emma", Pages: 4},
	}}
	var buf bytes.Buffer
	printEntries(&buf, view, numberView(view, "", 0), true)

	lines := strings.Split(buf.String(), "\n")
	assert.Contains(t, lines[0], "[Finished]")
	assert.NotContains(t, lines[1], "[")
}

func TestPrintStats_Plain(t *testing.T) {
	entries := []models.Entry{{Date: "2024-01-01", Book: "Dune", Pages: 10, Minutes: 5, Mood: "Focused", TimeOfDay: models.AM}}
	var buf bytes.Buffer
	require.NoError(t, printStats(&buf, stats.Build(entries, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), "local csv", true))
	assert.Equal(t, stats.Markdown(stats.Build(entries, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))), buf.String())
}

func TestPrintStatus(t *testing.T) {
	c := config.New()
	c.DataDir = "/data/readlog"
	var buf bytes.Buffer
	c.Moods = []string{"Sleepy"}
	printStatus(&buf, c, []models.Entry{{Mood: "Focused"}, {Mood: "Giddy"}})

	out := buf.String()
	assert.Contains(t, out, "not configured")
	assert.Contains(t, out, "csv, 2 sessions")
	assert.Contains(t, out, "Sad, Sleepy, Giddy")
	assert.Contains(t, out, filepath.Join("/data/readlog", "reading_log.csv"))
	assert.Contains(t, out, "Last book:    (none yet)")
}

func TestPrintStatus_ShowsLastBookTitle(t *testing.T) {
	c := config.New()
	c.DataDir = t.TempDir()
	require.NoError(t, storage.NewLastBook(c.LastBookPath()).Set("Middlemarch"))

	var buf bytes.Buffer
	printStatus(&buf, c, nil)

	out := buf.String()
	assert.Contains(t, out, "Last book:    Middlemarch")
	assert.Contains(t, out, "Last-book file: "+c.LastBookPath())
}

func TestEditChange(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("pages", "", "")
	cmd.Flags().String("mood", "", "")
	cmd.Flags().String("book", "", "")
	cmd.Flags().String("date", "", "")
	cmd.Flags().String("minutes", "", "")
	cmd.Flags().String("time", "", "")
	cmd.Flags().String("notes", "", "")
	cmd.Flags().String("status", "", "")

	_, err := editChange(cmd)
	assert.Error(t, err, "no flags means nothing to change")

	require.NoError(t, cmd.Flags().Set("pages", "42"))
	require.NoError(t, cmd.Flags().Set("mood", "tired"))
	require.NoError(t, cmd.Flags().Set("status", "finished"))
	change, err := editChange(cmd)
	require.NoError(t, err)

	e := models.Entry{Book: "Dune", Pages: 1, Minutes: 9, Mood: "Focused"}
	change(&e)
	assert.Equal(t, 42, e.Pages)
	assert.Equal(t, 9, e.Minutes)
	assert.Equal(t, "tired", e.Mood)
	assert.Equal(t, "finished", e.Status)
	assert.Equal(t, "Dune", e.Book)
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv(config.EnvNotionToken, "")
	t.Setenv(config.EnvNotionDB, "")
	dataDir := filepath.Join(dir, "books")
	global := []string{"--data-dir", dataDir}

	out, err := run(t, append([]string{"add", "Dune", "--pages", "30", "--minutes", "45", "--mood", "focused", "--time", "pm", "--date", "2024-01-02"}, global...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged to local csv")

	// Book defaults to the last one logged. Flag values persist between
	// executions of the same command tree, so every flag is passed again.
	out, err = run(t, append([]string{"add", "--pages", "10", "--minutes", "0", "--mood", "", "--time", "am", "--date", "2024-01-03"}, global...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")

	_, err = run(t, append([]string{"add", "   ", "--pages", "0", "--minutes", "0", "--time", "am"}, global...)...)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	out, err = run(t, append([]string{"list", "--local"}, global...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "0:2024-01-02:Dune")
	assert.Contains(t, out, "1:2024-01-03:Dune")
	assert.Contains(t, out, "2 sessions from local csv")

	out, err = run(t, append([]string{"edit", "1:2024-01-03:Dune", "--pages", "12"}, global...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Record updated")

	out, err = run(t, append([]string{"export"}, global...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Book,Pages,Minutes,Mood,TimeOfDay,Notes,ID,Status", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "2024-01-03,Dune,12,0,Neutral,AM,,"), lines[2])

	file, err := os.ReadFile(filepath.Join(dataDir, "reading_log.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(file), out)

	out, err = run(t, append([]string{"stats", "--plain"}, global...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "| 42 | 45 | 2 |")
}

func TestMigrateCSVToSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(config.EnvNotionToken, "")
	t.Setenv(config.EnvNotionDB, "")
	dataDir := filepath.Join(dir, "books")

	_, err := run(t, "migrate", "--to", "sqlite", "--data-dir", dataDir)
	require.Error(t, err, "empty source")

	require.NoError(t, os.MkdirAll(dataDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "reading_log.csv"),
		[]byte("Date,Book,Pages,rating\n2024-01-01,Dune,5,4\n"), 0o600))

	out, err := run(t, "migrate", "--to", "sqlite", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 1")
	assert.Contains(t, out, "[rating]")

	_, err = run(t, "migrate", "--to", "sqlite", "--data-dir", dataDir)
	require.Error(t, err, "target already holds entries")
}
