package checks

import (
	"context"
	"fmt"
	"strings"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/core/utils"
)

// Duplicate is a stored row whose identity key an earlier row already holds.
type Duplicate struct {
	Position int    `json:"position"`
	Key      string `json:"key"`
	KeptAt   int    `json:"kept_at"`
}

// SheetReport strictly types the result of a sheet integrity check.
type SheetReport struct {
	Rows         int         `json:"rows"`
	Indexed      int         `json:"indexed"`
	HeaderOK     bool        `json:"header_ok"`
	HeaderIssues []string    `json:"header_issues"`
	Duplicates   []Duplicate `json:"duplicates"`
	InvalidDates []int       `json:"invalid_dates"`
	Status       string      `json:"status"` // "ok", "error"
}

// CheckSheet reads the sheet and reports duplicate identity keys, rows with an
// event id but no valid date, and header cells that differ from header.
func CheckSheet(ctx context.Context, store reconcile.Store, l reconcile.Layout, header []string) (*SheetReport, error) {
	if store == nil {
		return nil, fmt.Errorf("sheet store is nil")
	}

	rows, err := store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	idx := l.BuildIndex(rows)
	report := &SheetReport{
		Rows:         len(rows),
		Indexed:      len(idx.Entries),
		HeaderOK:     true,
		HeaderIssues: []string{},
		Duplicates:   []Duplicate{},
		InvalidDates: []int{},
		Status:       "ok",
	}

	byPosition := make(map[int]reconcile.Row, len(rows))
	for _, row := range rows {
		byPosition[row.Position] = row.Values

		if row.Position <= l.HeaderRows {
			continue
		}
		if l.Identity(row.Values) == "" {
			continue
		}
		if _, ok := l.Date(row.Values); !ok {
			report.InvalidDates = append(report.InvalidDates, row.Position)
		}
	}

	for _, pos := range idx.Duplicates {
		key, _ := l.Key(byPosition[pos])
		report.Duplicates = append(report.Duplicates, Duplicate{
			Position: pos,
			Key:      key,
			KeptAt:   idx.Entries[key].Position,
		})
	}

	if l.HeaderRows > 0 && len(header) > 0 {
		report.HeaderIssues = checkHeader(l, byPosition[1], header)
		report.HeaderOK = len(report.HeaderIssues) == 0
	}

	if !report.HeaderOK || len(report.Duplicates) > 0 || len(report.InvalidDates) > 0 {
		report.Status = "error"
	}
	return report, nil
}

// checkHeader compares the first row's managed cells with the expected names.
func checkHeader(l reconcile.Layout, row reconcile.Row, header []string) []string {
	issues := []string{}
	if row == nil {
		return append(issues, "header row is missing")
	}
	for i, col := range l.ManagedColumns {
		if i >= len(header) {
			break
		}
		got := strings.TrimSpace(utils.ToString(l.Cell(row, col)))
		if !strings.EqualFold(got, header[i]) {
			issues = append(issues, fmt.Sprintf("column %d: expected %q, got %q", col, header[i], got))
		}
	}
	return issues
}

// FixDuplicates deletes the duplicate rows of a report, bottom-up.
func FixDuplicates(ctx context.Context, store reconcile.Store, duplicates []Duplicate) (int, error) {
	positions := make([]int, len(duplicates))
	for i, d := range duplicates {
		positions[i] = d.Position
	}

	applied, err := reconcile.Apply(ctx, store, reconcile.Layout{}, reconcile.Diff{Deletions: positions},
		reconcile.ReconcileOptions{Confirmed: true})
	if err != nil {
		return applied.Deleted, fmt.Errorf("failed to remove duplicates: %w", err)
	}
	return applied.Deleted, nil
}
