package calendar

import (
	"context"
	"time"
)

// Event is a timed calendar event as reported by a source.
type Event struct {
	// ID is the source event id (ICS UID). Recurring instances share it.
	ID string `json:"id"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	// MeetingLink is a conference URL attached to the event, if any.
	MeetingLink string `json:"meeting_link,omitempty"`
}

// Source queries events overlapping a window.
// Implementations return fully materialized, ordered results.
type Source interface {
	Events(ctx context.Context, w Window) ([]Event, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, w Window) ([]Event, error)

// Events calls f(ctx, w).
func (f SourceFunc) Events(ctx context.Context, w Window) ([]Event, error) {
	return f(ctx, w)
}
