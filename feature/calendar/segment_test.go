package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(loc *time.Location, y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, loc)
}

func TestSplit_SingleDay(t *testing.T) {
	loc := time.UTC
	w := NewWindow(at(loc, 2025, 8, 1, 0, 0), at(loc, 2025, 8, 31, 0, 0), loc)
	ev := Event{ID: "a", Start: at(loc, 2025, 8, 8, 9, 0), End: at(loc, 2025, 8, 8, 17, 30)}

	segs := Split(ev, w)
	require.Len(t, segs, 1)
	assert.Equal(t, ev.Start, segs[0].Start)
	assert.Equal(t, ev.End, segs[0].End)
	assert.Equal(t, "2025-08-08", segs[0].Date())
}

func TestSplit_NightShift(t *testing.T) {
	loc := time.UTC
	w := NewWindow(at(loc, 2025, 8, 8, 0, 0), at(loc, 2025, 8, 9, 0, 0), loc)
	ev := Event{ID: "abc", Title: "Night Shift", Start: at(loc, 2025, 8, 8, 22, 0), End: at(loc, 2025, 8, 9, 2, 0)}

	segs := Split(ev, w)
	require.Len(t, segs, 2)

	assert.Equal(t, "2025-08-08", segs[0].Date())
	assert.Equal(t, at(loc, 2025, 8, 9, 0, 0), segs[0].End)
	assert.Equal(t, 2*time.Hour, segs[0].Duration())

	assert.Equal(t, "2025-08-09", segs[1].Date())
	assert.Equal(t, at(loc, 2025, 8, 9, 0, 0), segs[1].Start)
	assert.Equal(t, 2*time.Hour, segs[1].Duration())
}

func TestSplit_MultiDaySpansConcatenate(t *testing.T) {
	loc := time.UTC
	w := NewWindow(at(loc, 2025, 8, 1, 0, 0), at(loc, 2025, 8, 31, 0, 0), loc)
	ev := Event{ID: "conf", Start: at(loc, 2025, 8, 10, 15, 0), End: at(loc, 2025, 8, 13, 11, 0)}

	segs := Split(ev, w)
	require.Len(t, segs, 4)

	var total time.Duration
	for i, s := range segs {
		total += s.Duration()
		if i > 0 {
			assert.Equal(t, segs[i-1].End, s.Start, "segments must be contiguous")
		}
		assert.Equal(t, s.Start.Format(DateLayout), s.End.Add(-time.Nanosecond).Format(DateLayout), "segment must stay within one day")
	}
	assert.Equal(t, ev.End.Sub(ev.Start), total)
}

func TestSplit_ClippedToWindow(t *testing.T) {
	loc := time.UTC
	w := NewWindow(at(loc, 2025, 8, 9, 0, 0), at(loc, 2025, 8, 10, 0, 0), loc)
	ev := Event{ID: "long", Start: at(loc, 2025, 8, 7, 12, 0), End: at(loc, 2025, 8, 12, 12, 0)}

	segs := Split(ev, w)
	require.Len(t, segs, 2)
	assert.Equal(t, at(loc, 2025, 8, 9, 0, 0), segs[0].Start)
	assert.Equal(t, at(loc, 2025, 8, 11, 0, 0), segs[1].End)

	var total time.Duration
	for _, s := range segs {
		total += s.Duration()
	}
	assert.Equal(t, 48*time.Hour, total, "span equals event intersected with window")
}

func TestSplit_EndsAtMidnight(t *testing.T) {
	loc := time.UTC
	w := NewWindow(at(loc, 2025, 8, 1, 0, 0), at(loc, 2025, 8, 31, 0, 0), loc)
	ev := Event{ID: "eve", Start: at(loc, 2025, 8, 8, 20, 0), End: at(loc, 2025, 8, 9, 0, 0)}

	segs := Split(ev, w)
	require.Len(t, segs, 1, "no trailing zero-length segment")
	assert.Equal(t, 4*time.Hour, segs[0].Duration())
}

func TestSplit_OutsideWindow(t *testing.T) {
	loc := time.UTC
	w := NewWindow(at(loc, 2025, 8, 1, 0, 0), at(loc, 2025, 8, 2, 0, 0), loc)

	assert.Empty(t, Split(Event{ID: "before", Start: at(loc, 2025, 7, 30, 9, 0), End: at(loc, 2025, 7, 30, 10, 0)}, w))
	assert.Empty(t, Split(Event{ID: "after", Start: at(loc, 2025, 8, 3, 9, 0), End: at(loc, 2025, 8, 3, 10, 0)}, w))
	assert.Empty(t, Split(Event{ID: "empty", Start: at(loc, 2025, 8, 1, 9, 0), End: at(loc, 2025, 8, 1, 9, 0)}, w))
}

func TestSplit_ConvertsToWindowLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	w := NewWindow(at(seoul, 2025, 8, 8, 0, 0), at(seoul, 2025, 8, 9, 0, 0), seoul)
	// 14:00-16:00 UTC is 23:00-01:00 in Seoul
	ev := Event{ID: "utc", Start: at(time.UTC, 2025, 8, 8, 14, 0), End: at(time.UTC, 2025, 8, 8, 16, 0)}

	segs := Split(ev, w)
	require.Len(t, segs, 2)
	assert.Equal(t, "2025-08-08", segs[0].Date())
	assert.Equal(t, "23:00", segs[0].Start.Format("15:04"))
	assert.Equal(t, "2025-08-09", segs[1].Date())
}

func TestSplit_DSTDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2025-03-30 has 23 hours in Berlin
	w := NewWindow(at(berlin, 2025, 3, 29, 0, 0), at(berlin, 2025, 3, 31, 0, 0), berlin)
	ev := Event{ID: "dst", Start: at(berlin, 2025, 3, 29, 12, 0), End: at(berlin, 2025, 3, 31, 12, 0)}

	segs := Split(ev, w)
	require.Len(t, segs, 3)
	assert.Equal(t, []string{"2025-03-29", "2025-03-30", "2025-03-31"}, []string{segs[0].Date(), segs[1].Date(), segs[2].Date()})
	assert.Equal(t, 23*time.Hour, segs[1].Duration())
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2025-08-08", "2025-08-09", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, at(time.UTC, 2025, 8, 8, 0, 0), w.Start)
	assert.Equal(t, time.Date(2025, 8, 9, 23, 59, 59, 999000000, time.UTC), w.End)
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.End.Add(time.Millisecond)))
	assert.Equal(t, "2025-08-08..2025-08-09", w.String())

	_, err = ParseWindow("2025-08-10", "2025-08-09", time.UTC)
	assert.Error(t, err)

	_, err = ParseWindow("yesterday", "2025-08-09", time.UTC)
	assert.Error(t, err)
}
