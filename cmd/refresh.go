package cmd

import (
	"fmt"

	"timesheet-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunRefresh bool

// refreshCmd reconciles the sheet with the calendar.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reconcile the sheet with the calendar (report + optionally apply)",
	Long: `Reconcile every date already present in the sheet with the calendar.

Rows whose event changed are rewritten (hand-written columns are kept),
new segments on those dates are appended and rows of vanished events are removed.

Examples:
  # Report only
  refresh --dry-run

  # Apply with interactive confirmation
  refresh

  # Apply without prompting
  refresh --yes`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&dryRunRefresh, "dry-run", false, "Only report the plan")
	refreshCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm changes (non-interactive)")
	RootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()
	l := rt.logger

	l.Info("Planning refresh...")
	plan, err := rt.timesheet.Plan(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan refresh: %w", err)
	}
	printPlanReport(l, plan)

	if plan.Diff.IsEmpty() {
		l.Info("Sheet already up to date.")
		return nil
	}
	if dryRunRefresh {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if !confirmAction(fmt.Sprintf("%d rows will change.", len(plan.Diff.Additions)+len(plan.Diff.Updates)+len(plan.Diff.Deletions))) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying changes...")
	result, err := rt.timesheet.Apply(ctx, plan, reconcile.ReconcileOptions{Confirmed: true})
	if err != nil {
		if result != nil {
			printApplied(l, result.Applied)
		}
		return fmt.Errorf("failed to apply refresh: %w", err)
	}
	printApplied(l, result.Applied)
	return nil
}

// printPlanReport logs the plan summary and a sample of the planned changes.
func printPlanReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary
	l.Info("Refresh report",
		zap.String("from", plan.From),
		zap.String("to", plan.To),
		zap.Int("existing", s.Existing),
		zap.Int("fresh", s.Fresh),
		zap.Int("add", s.Added),
		zap.Int("update", s.Updated),
		zap.Int("delete", s.Deleted),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("skipped", s.Skipped),
		zap.Int("duplicates", s.Duplicates),
	)

	const maxShow = 5
	for i, upd := range plan.Diff.Updates {
		if i == maxShow {
			l.Info("Additional updates not shown", zap.Int("count", len(plan.Diff.Updates)-maxShow))
			break
		}
		l.Info("Sample update", zap.Int("position", upd.Position), zap.String("key", upd.Key))
	}
	if len(plan.Diff.Deletions) > 0 {
		l.Info("Rows to delete", zap.Ints("positions", plan.Diff.Deletions))
	}
}

func printApplied(l *zap.Logger, applied reconcile.PlanSummary) {
	l.Info("Applied changes",
		zap.Int("added", applied.Added),
		zap.Int("updated", applied.Updated),
		zap.Int("deleted", applied.Deleted),
		zap.Int("unchanged", applied.Unchanged),
	)
}
