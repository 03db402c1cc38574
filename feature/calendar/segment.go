package calendar

import "time"

// Segment is the part of an event confined to one local calendar day.
type Segment struct {
	Event Event
	Start time.Time
	End   time.Time
}

// Date returns the local date the segment falls on.
func (s Segment) Date() string {
	return s.Start.Format(DateLayout)
}

// Duration returns the length of the segment.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Split cuts an event into day-confined segments that start inside w.
// Times are converted to the window's location; day boundaries are local
// midnights computed by calendar arithmetic, so 23h and 25h DST days hold.
func Split(ev Event, w Window) []Segment {
	loc := w.Location()
	end := ev.End.In(loc)

	var out []Segment
	for cursor := ev.Start.In(loc); cursor.Before(end); cursor = nextMidnight(cursor) {
		segEnd := nextMidnight(cursor)
		if end.Before(segEnd) {
			segEnd = end
		}
		if cursor.Before(segEnd) && w.Contains(cursor) {
			out = append(out, Segment{Event: ev, Start: cursor, End: segEnd})
		}
	}
	return out
}

func nextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}
