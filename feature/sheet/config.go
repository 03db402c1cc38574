package sheet

import "timesheet-sync/core/reconcile"

// Backend names.
const (
	BackendMemory = "memory"
	BackendDB     = "db"
	BackendObject = "object"
)

// Config holds configuration for the sheet store.
type Config struct {
	// Backend selects where the sheet lives (memory, db, object).
	Backend string `mapstructure:"backend" default:"db"`
	// Name is the sheet's period label, e.g. "2025-08" or "August 2025".
	Name string `mapstructure:"name" default:""`
	// ObjectPrefix is the key prefix of CSV sheets in object storage.
	ObjectPrefix string `mapstructure:"object_prefix" default:"timesheets/"`
	// Layout describes the sheet's columns.
	Layout reconcile.Layout `mapstructure:"layout"`
}

// IsValidBackend checks if the configured backend is known.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendMemory, BackendDB, BackendObject:
		return true
	default:
		return false
	}
}

// ObjectName returns the object key of the sheet's CSV.
func (c Config) ObjectName() string {
	return c.ObjectPrefix + c.Name + ".csv"
}
