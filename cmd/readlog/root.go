// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads configuration and the logger before any subcommand runs

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/readlog/internal/config"
	"github.com/harper/readlog/internal/logging"
	"github.com/harper/readlog/internal/persist"
)

var (
	cfgPath     string
	dataDirFlag string
	cfg         *config.Config
	logger      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "readlog",
	Short: "Reading session log with Notion sync and local fallback",
	Long: `
██████╗ ███████╗ █████╗ ██████╗ ██╗      ██████╗  ██████╗
██╔══██╗██╔════╝██╔══██╗██╔══██╗██║     ██╔═══██╗██╔════╝
██████╔╝█████╗  ███████║██║  ██║██║     ██║   ██║██║  ███╗
██╔══██╗██╔══╝  ██╔══██║██║  ██║██║     ██║   ██║██║   ██║
██║  ██║███████╗██║  ██║██████╔╝███████╗╚██████╔╝╚██████╔╝
╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝

Log reading sessions for humans and AI agents.

Entries go to Notion when configured and always fall back to a local
CSV or SQLite file, so nothing is lost.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		logger = logging.New(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default: ~/.config/readlog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default: ~/.local/share/readlog)")
}

// openCoordinator wires the configured stores. Callers close the local store.
func openCoordinator(cmd *cobra.Command) (*persist.Coordinator, error) {
	coord, err := cfg.OpenCoordinator(cmd.Context(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return coord, nil
}
