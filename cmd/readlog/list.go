// ABOUTME: List command for viewing logged reading sessions
// ABOUTME: Shows the unified view with the selectors that edit accepts

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/readlog/internal/config"
	"github.com/harper/readlog/internal/edit"
	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/persist"
	"github.com/harper/readlog/internal/timeutil"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List reading sessions",
	Long: `List reading sessions, oldest first.

Sessions come from Notion when it holds entries and from the local store
otherwise. Local rows show a selector (position:date:book) for readlog edit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		week, _ := cmd.Flags().GetBool("week")
		month, _ := cmd.Flags().GetBool("month")
		localOnly, _ := cmd.Flags().GetBool("local")

		coord, err := openCoordinator(cmd)
		if err != nil {
			return err
		}
		defer coord.Local().Close()

		var view persist.View
		if localOnly {
			view = persist.View{Source: coord.Local().Name(), Entries: coord.Local().Load().Entries()}
		} else {
			view = coord.LoadUnified(cmd.Context())
		}

		period := ""
		switch {
		case week:
			period = "week"
		case month:
			period = "month"
		}

		editable := view.Source == coord.Local().Name()
		printEntries(cmd.OutOrStdout(), view, numberView(view, period, limit), editable)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntP("limit", "n", config.DefaultListLimit, "max sessions to show (0 for all)")
	listCmd.Flags().Bool("week", false, "show only this week's sessions")
	listCmd.Flags().Bool("month", false, "show only this month's sessions")
	listCmd.Flags().Bool("local", false, "list the local store even when Notion is configured")

	listCmd.MarkFlagsMutuallyExclusive("week", "month")
}

// numberView filters the view to period and keeps the last limit rows.
func numberView(view persist.View, period string, limit int) []edit.Numbered {
	var keep func(models.Entry) bool
	if cutoff, ok := timeutil.ParsePeriod(period); ok {
		keep = func(e models.Entry) bool { return timeutil.OnOrAfter(e.Date, cutoff) }
	}
	rows := edit.Number(view.Entries, keep)
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows
}

func printEntries(w io.Writer, view persist.View, rows []edit.Numbered, editable bool) {
	faint := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if len(rows) == 0 {
		fmt.Fprintln(w, "No sessions found")
		return
	}

	for _, n := range rows {
		e := n.Entry
		key := shortID(e.ID)
		if editable {
			key = n.Selector.String()
		}
		status := ""
		if e.Status != "" {
			status = "  [" + e.Status + "]"
		}
		fmt.Fprintf(w, "%s  %s %s  %dp %dm  %s %s%s\n",
			faint(key), e.Date, bold(e.Book), e.Pages, e.Minutes, e.Mood, e.TimeOfDay, status)
		if e.Notes != "" {
			fmt.Fprintf(w, "    %s\n", faint(e.Notes))
		}
	}

	fmt.Fprintln(w, faint(fmt.Sprintf("%d sessions from %s", len(rows), view.Source)))
	if !editable {
		fmt.Fprintln(w, faint("use --local to list editable local rows"))
	}
}

func shortID(id string) string {
	if len(id) > config.DisplayIDLength {
		return id[:config.DisplayIDLength]
	}
	return id
}
