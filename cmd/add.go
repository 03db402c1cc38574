package cmd

import (
	"fmt"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/calendar"
	"timesheet-sync/feature/timesheet"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addFrom   string
	addTo     string
	dryRunAdd bool
)

// addCmd appends calendar events that are not yet in the sheet.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append calendar events missing from the sheet",
	Long: `Append every event segment in a date range whose row is not in the sheet yet.
This is how new dates enter the sheet; existing rows are never changed.
Without --from/--to the whole month named by the sheet is used.

Examples:
  add --from 2025-08-01 --to 2025-08-07 --yes
  add --dry-run`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addFrom, "from", "", "First date (yyyy-MM-dd)")
	addCmd.Flags().StringVar(&addTo, "to", "", "Last date (yyyy-MM-dd)")
	addCmd.Flags().BoolVar(&dryRunAdd, "dry-run", false, "Only report what would be added")
	addCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm changes (non-interactive)")
	addCmd.MarkFlagsRequiredTogether("from", "to")
	RootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()
	l := rt.logger

	var window *calendar.Window
	if addFrom != "" || addTo != "" {
		loc, err := rt.cfg.Calendar.LoadLocation()
		if err != nil {
			return err
		}
		w, err := calendar.ParseWindow(addFrom, addTo, loc)
		if err != nil {
			return err
		}
		window = &w
	}

	preview, err := rt.timesheet.PlanAdd(ctx, window)
	if err != nil {
		return fmt.Errorf("failed to plan add: %w", err)
	}
	printAddReport(l, preview)

	if preview.Added == 0 {
		l.Info("Nothing to add.")
		return nil
	}
	if dryRunAdd {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if !confirmAction(fmt.Sprintf("%d rows will be appended.", preview.Added)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	result, err := rt.timesheet.ApplyAdd(ctx, preview, reconcile.ReconcileOptions{Confirmed: true})
	if err != nil {
		return fmt.Errorf("failed to add rows: %w", err)
	}
	l.Info("Rows appended", zap.Int("added", result.Added))
	return nil
}

func printAddReport(l *zap.Logger, r *timesheet.AddResult) {
	l.Info("Add report",
		zap.String("from", r.From),
		zap.String("to", r.To),
		zap.Int("fresh", r.Fresh),
		zap.Int("present", r.Present),
		zap.Int("add", r.Added),
	)
}
