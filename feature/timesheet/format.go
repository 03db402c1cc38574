package timesheet

import (
	"fmt"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/calendar"
)

// DefaultPlaceholderTitle is written for events without a title.
const DefaultPlaceholderTitle = "(No title)"

// Header names the managed fields, in Record field order.
var Header = []string{
	"Date", "Start", "End", "Title", "Duration", "Description",
	"Week", "Month", "Year", "Weekday", "Link", "Event ID",
}

// Record is the flat projection of one segment.
type Record struct {
	Date        string
	Start       string
	End         string
	Title       string
	Duration    string
	Description string
	Week        int
	Month       string
	Year        int
	Weekday     string
	Link        string
	EventID     string
}

// Values returns the fields in the order the layout's managed columns expect.
func (r Record) Values() []any {
	return []any{
		r.Date, r.Start, r.End, r.Title, r.Duration, r.Description,
		r.Week, r.Month, r.Year, r.Weekday, r.Link, r.EventID,
	}
}

// Formatter maps segments onto sheet rows.
type Formatter struct {
	Layout           reconcile.Layout
	PlaceholderTitle string
}

// Format builds the record for a segment. It is pure and deterministic.
func (f Formatter) Format(seg calendar.Segment) Record {
	ev := seg.Event
	_, week := seg.Start.ISOWeek()

	title := ev.Title
	if title == "" {
		title = f.PlaceholderTitle
		if title == "" {
			title = DefaultPlaceholderTitle
		}
	}

	link := ev.MeetingLink
	if link == "" {
		link = ev.Location
	}

	return Record{
		Date:        seg.Start.Format(reconcile.DateLayout),
		Start:       seg.Start.Format(reconcile.TimeLayout),
		End:         endClock(seg),
		Title:       title,
		Duration:    formatDuration(seg),
		Description: ev.Description,
		Week:        week,
		Month:       seg.Start.Month().String(),
		Year:        seg.Start.Year(),
		Weekday:     seg.Start.Weekday().String(),
		Link:        link,
		EventID:     ev.ID,
	}
}

// Row formats a segment into a full-width row; free-form columns stay empty.
func (f Formatter) Row(seg calendar.Segment) reconcile.Row {
	return f.Layout.Project(f.Format(seg).Values())
}

// Rows segments every event over w and formats the result, in event order.
func (f Formatter) Rows(events []calendar.Event, w calendar.Window) []reconcile.Row {
	var rows []reconcile.Row
	for _, ev := range events {
		for _, seg := range calendar.Split(ev, w) {
			rows = append(rows, f.Row(seg))
		}
	}
	return rows
}

// HeaderRow places the field names into a full-width row.
func (f Formatter) HeaderRow() reconcile.Row {
	values := make([]any, len(Header))
	for i, name := range Header {
		values[i] = name
	}
	return f.Layout.Project(values)
}

// endClock renders the segment end, using 24:00 for a segment running to midnight.
func endClock(seg calendar.Segment) string {
	if seg.End.Format(reconcile.DateLayout) != seg.Start.Format(reconcile.DateLayout) {
		return "24:00"
	}
	return seg.End.Format(reconcile.TimeLayout)
}

// formatDuration floors the span to whole minutes as HH:MM.
func formatDuration(seg calendar.Segment) string {
	ms := seg.End.Sub(seg.Start).Milliseconds()
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
