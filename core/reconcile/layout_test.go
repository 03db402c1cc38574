package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleRow(id, date, title string) Row {
	return Row{date, "22:00", "24:00", title, "02:00", "", 32, "August", 2025, "Friday", "", id, "manual note"}
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name      string
		layout    Layout
		expectErr string
	}{
		{"Default", DefaultLayout(), ""},
		{"Negative header", Layout{HeaderRows: -1, IDColumn: 1, DateColumn: 1, ManagedColumns: []int{1}}, "header rows"},
		{"No managed columns", Layout{IDColumn: 1, DateColumn: 1}, "no managed columns"},
		{"Duplicate column", Layout{IDColumn: 1, DateColumn: 1, ManagedColumns: []int{1, 1}}, "listed twice"},
		{"Zero column", Layout{IDColumn: 1, DateColumn: 1, ManagedColumns: []int{0, 1}}, "invalid managed column"},
		{"ID not managed", Layout{IDColumn: 3, DateColumn: 1, ManagedColumns: []int{1, 2}}, "id column 3"},
		{"Date not managed", Layout{IDColumn: 2, DateColumn: 3, ManagedColumns: []int{1, 2}}, "date column 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

func TestLayout_Key(t *testing.T) {
	l := DefaultLayout()

	key, ok := l.Key(sampleRow("abc", "2025-08-08", "Night Shift"))
	assert.True(t, ok)
	assert.Equal(t, "abc_2025-08-08", key)

	// Date cells read back as time.Time must produce the same key
	row := sampleRow("abc", "", "Night Shift")
	row[0] = time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC)
	key, ok = l.Key(row)
	assert.True(t, ok)
	assert.Equal(t, "abc_2025-08-08", key)

	_, ok = l.Key(sampleRow("", "2025-08-08", "x"))
	assert.False(t, ok, "rows without identity have no key")

	_, ok = l.Key(sampleRow("abc", "Total", "x"))
	assert.False(t, ok, "rows without a valid date have no key")

	_, ok = l.Key(Row{"2025-08-08"})
	assert.False(t, ok, "short rows have no key")
}

func TestLayout_SnapshotNormalization(t *testing.T) {
	l := DefaultLayout()
	fresh := sampleRow("abc", "2025-08-08", "Night Shift")

	// Same values, typed the way a spreadsheet hands them back
	stored := sampleRow("abc", "", "Night Shift")
	stored[0] = time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC)
	stored[1] = time.Date(1899, 12, 30, 22, 0, 0, 0, time.UTC)
	stored[4] = time.Date(1899, 12, 30, 2, 0, 0, 0, time.UTC)
	stored[6] = float64(32)
	stored[8] = float64(2025)

	assert.Equal(t, l.Snapshot(fresh), l.Snapshot(stored))
}

func TestLayout_SnapshotIgnoresFreeForm(t *testing.T) {
	l := DefaultLayout()
	a := sampleRow("abc", "2025-08-08", "Night Shift")
	b := sampleRow("abc", "2025-08-08", "Night Shift")
	b[12] = "something else entirely"

	assert.Equal(t, l.Snapshot(a), l.Snapshot(b))

	b[3] = "Day Shift"
	assert.NotEqual(t, l.Snapshot(a), l.Snapshot(b))
}

func TestLayout_SnapshotReflexive(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, l.Snapshot(sampleRow("abc", "2025-08-08", "x")), l.Snapshot(sampleRow("abc", "2025-08-08", "x")))
}

func TestLayout_ProjectAndManaged(t *testing.T) {
	l := Layout{IDColumn: 4, DateColumn: 2, ManagedColumns: []int{2, 4}}

	row := l.Project([]any{"2025-08-08", "abc"})
	assert.Equal(t, Row{nil, "2025-08-08", nil, "abc"}, row)
	assert.Equal(t, []any{"2025-08-08", "abc"}, l.Managed(row))
	assert.Equal(t, 4, l.Width())
}
