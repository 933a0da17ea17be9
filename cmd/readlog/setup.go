// ABOUTME: Cobra command for interactive readlog storage configuration.
// ABOUTME: Launches a bubbletea TUI wizard for local backend, data directory and Notion credentials.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/readlog/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure readlog storage",
	Long:  "Interactive wizard to configure the local backend, data directory and Notion credentials.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	model := tui.NewSetupModel(tui.SetupResult{
		Backend:          cfg.LocalBackend,
		DataDir:          cfg.DataDir,
		NotionToken:      cfg.Notion.Token,
		NotionDatabaseID: cfg.Notion.DatabaseID,
	})

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup canceled.")
		return nil
	}

	r := final.Result()
	cfg.LocalBackend = r.Backend
	cfg.DataDir = r.DataDir
	cfg.Notion.Token = r.NotionToken
	cfg.Notion.DatabaseID = r.NotionDatabaseID

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config saved to %s\n", cfg.Path())
	return nil
}
