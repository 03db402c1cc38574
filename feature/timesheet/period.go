package timesheet

import (
	"fmt"
	"strings"
	"time"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/calendar"
)

var periodLayouts = []string{"2006-01", "January 2006", "Jan 2006"}

// ParsePeriod turns a sheet's period label into the month window it logs.
// An unparseable label is reported as reconcile.ErrInvalidContext.
func ParsePeriod(label string, loc *time.Location) (calendar.Window, error) {
	if loc == nil {
		loc = time.Local
	}
	label = strings.TrimSpace(label)
	for _, layout := range periodLayouts {
		first, err := time.ParseInLocation(layout, label, loc)
		if err != nil {
			continue
		}
		last := first.AddDate(0, 1, -1)
		return calendar.NewWindow(first, last, loc), nil
	}
	return calendar.Window{}, fmt.Errorf("%w: unparseable period label %q", reconcile.ErrInvalidContext, label)
}
