package integrity

import (
	"context"
	"fmt"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/integrity/checks"
	"timesheet-sync/feature/sheet"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	store  reconcile.Store
	layout reconcile.Layout
	header []string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new integrity service. db may be nil when the sheet
// does not live in the database; the schema check then reports an error.
func NewService(store reconcile.Store, layout reconcile.Layout, header []string, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		layout: layout,
		header: header,
		db:     db,
		logger: logger,
	}
}

// CheckSheet reports duplicate keys, invalid dates and header mismatches.
func (s *Service) CheckSheet(ctx context.Context) (*checks.SheetReport, error) {
	return checks.CheckSheet(ctx, s.store, s.layout, s.header)
}

// FixSheet removes the duplicate rows found by a check.
func (s *Service) FixSheet(ctx context.Context, report *checks.SheetReport) (int, error) {
	removed, err := checks.FixDuplicates(ctx, s.store, report.Duplicates)
	if removed > 0 {
		s.logger.Info("Removed duplicate rows", zap.Int("removed", removed))
	}
	return removed, err
}

// CheckSchema verifies the sheet_rows table against its gorm model.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, fmt.Errorf("schema check requires the %s sheet backend", sheet.BackendDB)
	}
	return checks.CheckSchema(s.db, sheet.Row{})
}
