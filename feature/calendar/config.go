package calendar

import (
	"fmt"
	"time"
)

// Config holds configuration for the calendar event source.
type Config struct {
	// URLs lists the ICS subscription feeds to query.
	URLs []string `mapstructure:"urls" default:""`
	// Timezone is the IANA zone whose midnights split events into days.
	Timezone string `mapstructure:"timezone" default:"Local"`
	// PlaceholderTitle is written for events without a title.
	PlaceholderTitle string `mapstructure:"placeholder_title" default:"(No title)"`
	// TimeoutSeconds bounds each feed request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// MaxOccurrences caps recurrence expansion per event.
	MaxOccurrences int `mapstructure:"max_occurrences" default:"5000"`
}

// LoadLocation resolves the configured timezone.
func (c Config) LoadLocation() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
