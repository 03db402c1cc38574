package timesheet

import (
	"testing"
	"time"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func nightShift() calendar.Event {
	return calendar.Event{
		ID:    "abc",
		Start: at(2025, time.August, 8, 22, 0),
		End:   at(2025, time.August, 9, 2, 0),
		Title: "Night Shift",
	}
}

func augustWindow(from, to int) calendar.Window {
	return calendar.NewWindow(at(2025, time.August, from, 0, 0), at(2025, time.August, to, 0, 0), time.UTC)
}

func TestFormatter_NightShift(t *testing.T) {
	f := Formatter{Layout: reconcile.DefaultLayout()}

	rows := f.Rows([]calendar.Event{nightShift()}, augustWindow(8, 9))
	require.Len(t, rows, 2)

	assert.Equal(t, reconcile.Row{
		"2025-08-08", "22:00", "24:00", "Night Shift", "02:00", "",
		32, "August", 2025, "Friday", "", "abc",
	}, rows[0])
	assert.Equal(t, reconcile.Row{
		"2025-08-09", "00:00", "02:00", "Night Shift", "02:00", "",
		32, "August", 2025, "Saturday", "", "abc",
	}, rows[1])

	k0, _ := f.Layout.Key(rows[0])
	k1, _ := f.Layout.Key(rows[1])
	assert.Equal(t, "abc_2025-08-08", k0)
	assert.Equal(t, "abc_2025-08-09", k1)
}

func TestFormatter_Format(t *testing.T) {
	seg := func(ev calendar.Event) calendar.Segment {
		return calendar.Segment{Event: ev, Start: ev.Start, End: ev.End}
	}

	t.Run("DurationFloorsToMinutes", func(t *testing.T) {
		ev := calendar.Event{ID: "x", Start: at(2025, time.August, 4, 9, 0), End: at(2025, time.August, 4, 10, 29).Add(59 * time.Second)}
		rec := Formatter{}.Format(seg(ev))
		assert.Equal(t, "01:29", rec.Duration)
		assert.Equal(t, "10:29", rec.End)
	})

	t.Run("Placeholder", func(t *testing.T) {
		ev := calendar.Event{ID: "x", Start: at(2025, time.August, 4, 9, 0), End: at(2025, time.August, 4, 10, 0)}
		assert.Equal(t, DefaultPlaceholderTitle, Formatter{}.Format(seg(ev)).Title)
		assert.Equal(t, "Busy", Formatter{PlaceholderTitle: "Busy"}.Format(seg(ev)).Title)
	})

	t.Run("LinkPrefersMeeting", func(t *testing.T) {
		ev := calendar.Event{ID: "x", Start: at(2025, time.August, 4, 9, 0), End: at(2025, time.August, 4, 10, 0),
			Location: "Room 4", MeetingLink: "https://meet.example.com/abc"}
		assert.Equal(t, "https://meet.example.com/abc", Formatter{}.Format(seg(ev)).Link)

		ev.MeetingLink = ""
		assert.Equal(t, "Room 4", Formatter{}.Format(seg(ev)).Link)
	})

	t.Run("CalendarFields", func(t *testing.T) {
		ev := calendar.Event{ID: "x", Start: at(2024, time.December, 30, 8, 0), End: at(2024, time.December, 30, 9, 0)}
		rec := Formatter{}.Format(seg(ev))
		assert.Equal(t, 1, rec.Week)
		assert.Equal(t, "December", rec.Month)
		assert.Equal(t, 2024, rec.Year)
		assert.Equal(t, "Monday", rec.Weekday)
	})
}

func TestFormatter_RowKeepsFreeFormEmpty(t *testing.T) {
	l := reconcile.DefaultLayout()
	l.ManagedColumns = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 14}
	l.IDColumn = 14

	row := Formatter{Layout: l}.Row(calendar.Segment{Event: nightShift(), Start: at(2025, time.August, 8, 22, 0), End: at(2025, time.August, 9, 0, 0)})
	require.Len(t, row, 14)
	assert.Nil(t, row[11])
	assert.Nil(t, row[12])
	assert.Equal(t, "abc", row[13])
}

func TestFormatter_HeaderRow(t *testing.T) {
	row := Formatter{Layout: reconcile.DefaultLayout()}.HeaderRow()
	require.Len(t, row, len(Header))
	assert.Equal(t, "Date", row[0])
	assert.Equal(t, "Event ID", row[11])
}
