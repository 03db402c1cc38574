package reconcile

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"timesheet-sync/core/utils"
)

const (
	// DateLayout is the canonical display form of a date cell.
	DateLayout = "2006-01-02"
	// TimeLayout is the canonical display form of a time-of-day cell.
	TimeLayout = "15:04"

	// snapshotSep joins managed values; the ASCII unit separator never appears in typed cell data.
	snapshotSep = "\x1f"
)

// Layout describes where the engine finds and writes its columns.
// All column numbers are 1-based.
type Layout struct {
	// HeaderRows is the number of reserved rows at the top of the store.
	HeaderRows int `mapstructure:"header_rows" default:"1"`
	// IDColumn holds the source event id.
	IDColumn int `mapstructure:"id_column" default:"12"`
	// DateColumn holds the segment date.
	DateColumn int `mapstructure:"date_column" default:"1"`
	// ManagedColumns lists the columns owned by the engine, in record field order.
	ManagedColumns []int `mapstructure:"managed_columns" default:"1,2,3,4,5,6,7,8,9,10,11,12"`
	// TimeColumns lists managed columns whose time-typed values render as HH:mm.
	TimeColumns []int `mapstructure:"time_columns" default:"2,3,5"`
}

// DefaultLayout returns the layout of a freshly created timesheet.
func DefaultLayout() Layout {
	return Layout{
		HeaderRows:     1,
		IDColumn:       12,
		DateColumn:     1,
		ManagedColumns: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		TimeColumns:    []int{2, 3, 5},
	}
}

// Validate checks the layout is internally consistent.
func (l Layout) Validate() error {
	if l.HeaderRows < 0 {
		return fmt.Errorf("header rows must not be negative, got %d", l.HeaderRows)
	}
	if len(l.ManagedColumns) == 0 {
		return fmt.Errorf("no managed columns configured")
	}
	seen := make(map[int]struct{}, len(l.ManagedColumns))
	for _, col := range l.ManagedColumns {
		if col < 1 {
			return fmt.Errorf("invalid managed column %d", col)
		}
		if _, dup := seen[col]; dup {
			return fmt.Errorf("managed column %d listed twice", col)
		}
		seen[col] = struct{}{}
	}
	if _, ok := seen[l.IDColumn]; !ok {
		return fmt.Errorf("id column %d is not a managed column", l.IDColumn)
	}
	if _, ok := seen[l.DateColumn]; !ok {
		return fmt.Errorf("date column %d is not a managed column", l.DateColumn)
	}
	return nil
}

// Width returns the number of columns needed to hold every managed column.
func (l Layout) Width() int {
	return slices.Max(l.ManagedColumns)
}

// Cell returns the value at the 1-based column, or nil if the row is shorter.
func (l Layout) Cell(row Row, col int) any {
	if col < 1 || col > len(row) {
		return nil
	}
	return row[col-1]
}

// Identity returns the trimmed event id of a row.
func (l Layout) Identity(row Row) string {
	return strings.TrimSpace(utils.ToString(l.Cell(row, l.IDColumn)))
}

// Date returns the canonical date of a row and whether it is a valid date.
func (l Layout) Date(row Row) (string, bool) {
	switch v := l.Cell(row, l.DateColumn).(type) {
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.Format(DateLayout), true
	case nil:
		return "", false
	default:
		s := strings.TrimSpace(utils.ToString(v))
		if _, err := time.Parse(DateLayout, s); err != nil {
			return "", false
		}
		return s, true
	}
}

// Key returns the identity key (eventId + "_" + date) of a row.
// ok is false when the row has no identity or no valid date.
func (l Layout) Key(row Row) (key string, ok bool) {
	id := l.Identity(row)
	if id == "" {
		return "", false
	}
	date, valid := l.Date(row)
	if !valid {
		return "", false
	}
	return id + "_" + date, true
}

// Normalize renders the value of a managed column in its canonical display form.
// Values read back from storage may be typed differently from freshly computed
// ones (a time.Time for "09:30", a float64 for "32"); both must normalize equally.
func (l Layout) Normalize(col int, v any) string {
	if t, ok := v.(time.Time); ok {
		if col != l.DateColumn && slices.Contains(l.TimeColumns, col) {
			return t.Format(TimeLayout)
		}
		return t.Format(DateLayout)
	}
	return utils.ToString(v)
}

// Snapshot returns the canonical concatenation of a row's managed values.
func (l Layout) Snapshot(row Row) string {
	parts := make([]string, len(l.ManagedColumns))
	for i, col := range l.ManagedColumns {
		parts[i] = l.Normalize(col, l.Cell(row, col))
	}
	return strings.Join(parts, snapshotSep)
}

// Managed extracts the values of the managed columns, in ManagedColumns order.
func (l Layout) Managed(row Row) []any {
	out := make([]any, len(l.ManagedColumns))
	for i, col := range l.ManagedColumns {
		out[i] = l.Cell(row, col)
	}
	return out
}

// Project places values (in ManagedColumns order) into a full-width row.
// Free-form columns are left nil.
func (l Layout) Project(values []any) Row {
	row := make(Row, l.Width())
	for i, col := range l.ManagedColumns {
		if i < len(values) {
			row[col-1] = values[i]
		}
	}
	return row
}
