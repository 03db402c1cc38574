package server

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// RefreshSchedule is a cron expression for periodic refreshes. Empty disables them.
	RefreshSchedule string `mapstructure:"refresh_schedule" default:""`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"10"`
}

// IsScheduled reports whether periodic refreshes are configured.
func (c Config) IsScheduled() bool {
	return c.RefreshSchedule != ""
}

// Schedule parses RefreshSchedule. Standard five-field expressions and
// descriptors such as "@hourly" or "@every 15m" are accepted.
func (c Config) Schedule() (cron.Schedule, error) {
	s, err := cron.ParseStandard(c.RefreshSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", c.RefreshSchedule, err)
	}
	return s, nil
}
