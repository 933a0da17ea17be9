// ABOUTME: Add command for logging one reading session
// ABOUTME: Validates flag input, saves through the coordinator and reports where the entry landed

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/persist"
)

var addCmd = &cobra.Command{
	Use:   "add [book]",
	Short: "Log a reading session",
	Long: `Log a reading session. The book defaults to the last title you logged.

Examples:
  readlog add "Dune" --pages 30 --minutes 45 --mood focused --time pm
  readlog add --pages 12 --date yesterday --notes "finished part one"
  readlog add "Dune" --pages 20 --status finished`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("pages", "p", "0", "pages read")
	addCmd.Flags().StringP("minutes", "m", "0", "minutes read")
	addCmd.Flags().String("mood", models.DefaultMood, "mood ("+strings.Join(models.DefaultMoods, ", ")+")")
	addCmd.Flags().StringP("time", "t", "", "time of day, AM or PM (default: from the clock)")
	addCmd.Flags().StringP("date", "d", "today", "session date: today, yesterday or YYYY-MM-DD")
	addCmd.Flags().String("notes", "", "optional notes")
	addCmd.Flags().String("status", "", "optional reading status ("+strings.Join(models.Statuses, ", ")+")")
}

func runAdd(cmd *cobra.Command, args []string) error {
	pages, _ := cmd.Flags().GetString("pages")
	minutes, _ := cmd.Flags().GetString("minutes")
	mood, _ := cmd.Flags().GetString("mood")
	tod, _ := cmd.Flags().GetString("time")
	date, _ := cmd.Flags().GetString("date")
	notes, _ := cmd.Flags().GetString("notes")
	status, _ := cmd.Flags().GetString("status")

	coord, err := openCoordinator(cmd)
	if err != nil {
		return err
	}
	defer coord.Local().Close()

	raw := models.RawEntry{
		Date:      date,
		Pages:     pages,
		Minutes:   minutes,
		Mood:      mood,
		TimeOfDay: tod,
		Notes:     notes,
		Status:    status,
	}
	if len(args) > 0 {
		raw.Book = args[0]
	} else {
		raw.Book = coord.LastBook()
	}
	if raw.TimeOfDay == "" {
		raw.TimeOfDay = clockHalf(time.Now())
	}

	entry, err := models.Validate(raw, cfg.ValidateOptions())
	if err != nil {
		return err
	}

	result, err := coord.Save(cmd.Context(), models.NewEntry(entry))
	if err != nil {
		return err
	}
	printSaveResult(cmd.OutOrStdout(), result)
	return nil
}

// clockHalf returns AM before noon and PM after.
func clockHalf(t time.Time) string {
	if t.Hour() < 12 {
		return models.AM
	}
	return models.PM
}

func printSaveResult(w io.Writer, r *persist.SaveResult) {
	e := r.Entry
	if r.FellBack() {
		fmt.Fprintln(w, color.YellowString("⚠ %s", r.Message()))
	}
	fmt.Fprintf(w, "%s %s: %s, %d pages, %d min (%s, %s)\n",
		color.GreenString("✓ Logged to %s", r.SavedTo), e.Date, e.Book, e.Pages, e.Minutes, e.Mood, e.TimeOfDay)
}
