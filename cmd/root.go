package cmd

import (
	"fmt"
	"os"

	"timesheet-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "timesheet-sync",
	Short: "Calendar to timesheet reconciliation",
	Long: `Timesheet Sync keeps a monthly timesheet in step with calendar feeds.
Events are split into per-day rows; rows are added, updated and removed
so the sheet mirrors the calendar while hand-written columns are kept.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Debug level selects the development encoder with ISO8601 timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
