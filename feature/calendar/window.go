package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the canonical form of a calendar date.
const DateLayout = "2006-01-02"

// Window is a query range covering whole local days.
// Start is 00:00:00.000 of the first day, End is 23:59:59.999 of the last.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow expands the dates from and to into full local-day bounds in loc.
// Only the calendar date of from and to is used.
func NewWindow(from, to time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	from = from.In(loc)
	to = to.In(loc)
	return Window{
		Start: time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc),
		End:   time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(999*time.Millisecond), loc),
	}
}

// ParseWindow builds a window from two yyyy-MM-dd dates.
func ParseWindow(from, to string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(DateLayout, from, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	end, err := time.ParseInLocation(DateLayout, to, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	if end.Before(start) {
		return Window{}, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return NewWindow(start, end, loc), nil
}

// Location returns the location the window's day bounds are expressed in.
func (w Window) Location() *time.Location {
	return w.Start.Location()
}

// Contains reports whether t falls within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Overlaps reports whether [start, end) intersects the window.
func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

func (w Window) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}
