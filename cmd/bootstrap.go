package cmd

import (
	"context"
	"fmt"

	"timesheet-sync/core/config"
	"timesheet-sync/core/database"
	"timesheet-sync/core/logger"
	"timesheet-sync/core/reconcile"
	"timesheet-sync/core/storage"
	"timesheet-sync/feature/calendar"
	"timesheet-sync/feature/integrity"
	"timesheet-sync/feature/sheet"
	"timesheet-sync/feature/timesheet"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles everything a command needs.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	store     reconcile.Store
	timesheet *timesheet.Service
	integrity *integrity.Service
}

// bootstrap loads configuration and wires the sheet, source and services.
// Only the connection the configured sheet backend uses is opened.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: l}

	deps := sheet.Deps{Bucket: cfg.Storage.Bucket}
	switch cfg.Sheet.Backend {
	case sheet.BackendDB:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.db = db
		deps.DB = db
	case sheet.BackendObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		deps.Storage = client
	}

	store, err := sheet.Open(ctx, cfg.Sheet, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	rt.store = store

	loc, err := cfg.Calendar.LoadLocation()
	if err != nil {
		return nil, err
	}
	if len(cfg.Calendar.URLs) == 0 {
		l.Warn("No calendar feeds configured; refresh and add will fail until CALENDAR_URLS is set")
	}
	source := calendar.NewICSSource(cfg.Calendar, l)

	rt.timesheet = timesheet.NewService(store, source, timesheet.Options{
		Layout:           cfg.Sheet.Layout,
		Period:           cfg.Sheet.Name,
		Location:         loc,
		PlaceholderTitle: cfg.Calendar.PlaceholderTitle,
	}, l)
	rt.integrity = integrity.NewService(store, cfg.Sheet.Layout, timesheet.Header, rt.db, l)

	l = l.With(zap.String("sheet", cfg.Sheet.Name), zap.String("backend", cfg.Sheet.Backend))
	rt.logger = l
	return rt, nil
}
