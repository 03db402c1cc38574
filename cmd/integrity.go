package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag    bool
	jsonOutput bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the sheet and its storage for problems",
	Long: `Reports duplicate rows, rows with an invalid date, header mismatches and,
for the db backend, differences between the sheet_rows table and its model.`,
	RunE: runIntegrity,
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Remove duplicate rows")
	integrityCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the reports as JSON")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()
	l := rt.logger

	sheetReport, err := rt.integrity.CheckSheet(ctx)
	if err != nil {
		return fmt.Errorf("sheet check failed: %w", err)
	}

	report := map[string]any{"sheet": sheetReport}
	if rt.db != nil {
		schemaReport, err := rt.integrity.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		report["schema"] = schemaReport
		if !schemaReport.Matched {
			l.Warn("Schema mismatch",
				zap.Strings("missing_columns", schemaReport.MissingColumns),
				zap.Strings("type_mismatches", schemaReport.TypeMismatches),
			)
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		l.Info("Sheet check",
			zap.String("status", sheetReport.Status),
			zap.Int("rows", sheetReport.Rows),
			zap.Int("indexed", sheetReport.Indexed),
			zap.Int("duplicates", len(sheetReport.Duplicates)),
			zap.Ints("invalid_dates", sheetReport.InvalidDates),
			zap.Strings("header_issues", sheetReport.HeaderIssues),
		)
	}

	if fixFlag && len(sheetReport.Duplicates) > 0 {
		removed, err := rt.integrity.FixSheet(ctx, sheetReport)
		if err != nil {
			return err
		}
		l.Info("Duplicates removed", zap.Int("removed", removed))
	}
	return nil
}
