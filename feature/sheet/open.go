package sheet

import (
	"context"
	"fmt"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/core/storage"

	"gorm.io/gorm"
)

// Deps carries the connections a backend may need.
type Deps struct {
	DB      *gorm.DB
	Storage storage.Client
	Bucket  string
}

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config, deps Deps) (reconcile.Store, error) {
	if !cfg.IsValidBackend() {
		return nil, fmt.Errorf("unknown sheet backend %q", cfg.Backend)
	}
	if cfg.Name == "" && cfg.Backend != BackendMemory {
		return nil, fmt.Errorf("sheet name is required for backend %q", cfg.Backend)
	}

	switch cfg.Backend {
	case BackendDB:
		if deps.DB == nil {
			return nil, fmt.Errorf("sheet backend %q requires a database connection", cfg.Backend)
		}
		s := NewDB(deps.DB, cfg.Name)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case BackendObject:
		if deps.Storage == nil {
			return nil, fmt.Errorf("sheet backend %q requires a storage client", cfg.Backend)
		}
		if err := storage.EnsureBucket(ctx, deps.Storage, deps.Bucket); err != nil {
			return nil, err
		}
		return NewObject(deps.Storage, deps.Bucket, cfg.ObjectName()), nil
	default:
		return NewMemory(), nil
	}
}
