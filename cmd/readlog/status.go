// ABOUTME: Status command reporting configuration and storage state
// ABOUTME: Shows whether Notion is configured, the local backend and where files live

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/readlog/internal/config"
	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show storage configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := cfg.OpenLocal(logger)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer local.Close()

		printStatus(cmd.OutOrStdout(), cfg, local.Load().Entries())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(w io.Writer, c *config.Config, entries []models.Entry) {
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(w, color.New(color.Bold).Sprint("readlog status"))
	fmt.Fprintln(w, strings.Repeat("─", config.SeparatorWidth))

	if c.NotionConfigured() {
		fmt.Fprintf(w, "  Notion:       %s (database %s)\n", color.GreenString("configured"), maskID(c.Notion.DatabaseID))
	} else {
		fmt.Fprintf(w, "  Notion:       %s %s\n", color.YellowString("not configured"), faint("(entries are saved locally)"))
	}

	backend := c.GetLocalBackend()
	fmt.Fprintf(w, "  Local store:  %s, %d sessions\n", backend, len(entries))
	fmt.Fprintf(w, "  Data file:    %s\n", c.LocalPath(backend))
	lastBook := storage.NewLastBook(c.LastBookPath()).Get()
	if lastBook == "" {
		lastBook = faint("(none yet)")
	}
	fmt.Fprintf(w, "  Last book:    %s\n", lastBook)
	fmt.Fprintf(w, "  Last-book file: %s\n", c.LastBookPath())
	fmt.Fprintf(w, "  Config:       %s\n", c.Path())
	fmt.Fprintf(w, "  Moods:        %s\n", strings.Join(models.MoodChoices(entries, c.Moods), ", "))
}

// maskID keeps the first and last four characters.
func maskID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "…" + id[len(id)-4:]
}
