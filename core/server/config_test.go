package server_test

import (
	"testing"
	"time"

	"timesheet-sync/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Schedule(t *testing.T) {
	tests := []struct {
		name      string
		schedule  string
		scheduled bool
		expectErr bool
	}{
		{"Cron", "*/15 * * * *", true, false},
		{"Descriptor", "@hourly", true, false},
		{"Every", "@every 10m", true, false},
		{"Invalid", "every day", true, true},
		{"Empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{RefreshSchedule: tt.schedule}
			assert.Equal(t, tt.scheduled, c.IsScheduled())

			s, err := c.Schedule()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			now := time.Date(2025, time.August, 8, 9, 7, 0, 0, time.UTC)
			assert.True(t, s.Next(now).After(now))
		})
	}
}
