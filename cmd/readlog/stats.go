// ABOUTME: Stats command for reading metrics over the unified view
// ABOUTME: Renders KPIs and tables through glamour plus terminal bar charts and a heat grid

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/readlog/internal/config"
	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/stats"
	"github.com/harper/readlog/internal/timeutil"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading statistics",
	Long: `Show totals, averages per reading day, streaks, per-book totals, daily
pages, pages by time of day and a mood by time-of-day grid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		week, _ := cmd.Flags().GetBool("week")
		month, _ := cmd.Flags().GetBool("month")

		coord, err := openCoordinator(cmd)
		if err != nil {
			return err
		}
		defer coord.Local().Close()

		view := coord.LoadUnified(cmd.Context())
		entries := view.Entries
		period := ""
		switch {
		case week:
			period = "week"
		case month:
			period = "month"
		}
		if cutoff, ok := timeutil.ParsePeriod(period); ok {
			entries = filterSince(entries, cutoff)
		}

		report := stats.Build(entries, time.Now())
		return printStats(cmd.OutOrStdout(), report, view.Source, plain)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Bool("plain", false, "print raw markdown without styling or charts")
	statsCmd.Flags().Bool("week", false, "only this week's sessions")
	statsCmd.Flags().Bool("month", false, "only this month's sessions")

	statsCmd.MarkFlagsMutuallyExclusive("week", "month")
}

func filterSince(entries []models.Entry, cutoff time.Time) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if timeutil.OnOrAfter(e.Date, cutoff) {
			out = append(out, e)
		}
	}
	return out
}

func printStats(w io.Writer, report stats.Report, source string, plain bool) error {
	md := stats.Markdown(report)
	if plain {
		_, err := fmt.Fprint(w, md)
		return err
	}

	rendered, err := glamour.Render(md, "dark")
	if err != nil {
		// Fall back to raw markdown
		rendered = md
	}
	fmt.Fprint(w, rendered)

	fmt.Fprintln(w, stats.BarChart("Pages per day", report.Daily, config.ChartWidth))
	for _, s := range report.ByTimeOfDay {
		fmt.Fprintln(w, stats.BarChart("Pages per day ("+s.Label+")", s.Points, config.ChartWidth))
	}
	fmt.Fprintln(w, stats.HeatGrid(report.CrossTab))
	fmt.Fprintln(w, color.New(color.Faint).Sprintf("source: %s", source))
	return nil
}
