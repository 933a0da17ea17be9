// ABOUTME: Edit command for correcting a logged session in the local store
// ABOUTME: Resolves a selector from list and overwrites only the flags that were given

package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/readlog/internal/edit"
	"github.com/harper/readlog/internal/models"
)

var editCmd = &cobra.Command{
	Use:   "edit <selector>",
	Short: "Edit a session in the local store",
	Long: `Edit a session in the local store.

The selector is the position:date:book key shown by "readlog list --local",
or an id prefix of at least 6 characters. Only the given flags change.

Examples:
  readlog edit "3:2024-01-02:Dune" --pages 42
  readlog edit 1f0c2a --mood relaxed --time am`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().String("date", "", "new date")
	editCmd.Flags().String("book", "", "new book title")
	editCmd.Flags().String("pages", "", "new page count")
	editCmd.Flags().String("minutes", "", "new minute count")
	editCmd.Flags().String("mood", "", "new mood")
	editCmd.Flags().String("time", "", "new time of day, AM or PM")
	editCmd.Flags().String("notes", "", "new notes")
	editCmd.Flags().String("status", "", "new reading status, empty to clear")
}

func runEdit(cmd *cobra.Command, args []string) error {
	sel, err := edit.ParseSelector(args[0])
	if err != nil {
		return err
	}

	change, err := editChange(cmd)
	if err != nil {
		return err
	}

	local, err := cfg.OpenLocal(logger)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer local.Close()

	updated, err := edit.Update(local, sel, cfg.ValidateOptions(), change)
	if err != nil {
		var rerr *edit.ResolveError
		if errors.As(err, &rerr) {
			return fmt.Errorf("%w; run readlog list --local for current selectors", err)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s, %d pages, %d min (%s, %s)\n",
		color.GreenString("✓ Record updated"), updated.Date, updated.Book, updated.Pages, updated.Minutes, updated.Mood, updated.TimeOfDay)
	return nil
}

// editChange builds the mutation from the flags the user set.
func editChange(cmd *cobra.Command) (func(*models.Entry), error) {
	flags := cmd.Flags()
	var setters []func(*models.Entry, string)
	var values []string

	add := func(name string, set func(*models.Entry, string)) {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			setters = append(setters, set)
			values = append(values, v)
		}
	}
	add("date", func(e *models.Entry, v string) { e.Date = v })
	add("book", func(e *models.Entry, v string) { e.Book = v })
	add("pages", func(e *models.Entry, v string) { e.Pages = models.Count(v) })
	add("minutes", func(e *models.Entry, v string) { e.Minutes = models.Count(v) })
	add("mood", func(e *models.Entry, v string) { e.Mood = v })
	add("time", func(e *models.Entry, v string) { e.TimeOfDay = v })
	add("notes", func(e *models.Entry, v string) { e.Notes = v })
	add("status", func(e *models.Entry, v string) { e.Status = v })

	if len(setters) == 0 {
		return nil, fmt.Errorf("nothing to change: pass at least one of --date, --book, --pages, --minutes, --mood, --time, --notes, --status")
	}
	return func(e *models.Entry) {
		for i, set := range setters {
			set(e, values[i])
		}
	}, nil
}
