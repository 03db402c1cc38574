package sheet

import (
	"context"
	"fmt"
	"sync"

	"timesheet-sync/core/reconcile"
)

// Memory is an ordered in-memory sheet. Position i is rows[i-1].
type Memory struct {
	mu   sync.Mutex
	rows []reconcile.Row
}

// NewMemory creates a sheet holding copies of rows.
func NewMemory(rows ...reconcile.Row) *Memory {
	m := &Memory{}
	for _, r := range rows {
		m.rows = append(m.rows, cloneRow(r))
	}
	return m
}

// Read returns every row with its position.
func (m *Memory) Read(ctx context.Context) ([]reconcile.StoredRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]reconcile.StoredRow, len(m.rows))
	for i, r := range m.rows {
		out[i] = reconcile.StoredRow{Position: i + 1, Values: cloneRow(r)}
	}
	return out, nil
}

// Write sets the listed columns of the row at position, growing it if needed.
func (m *Memory) Write(ctx context.Context, position int, columns []int, values []any) error {
	if len(columns) != len(values) {
		return fmt.Errorf("%d columns but %d values", len(columns), len(values))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkPosition(position); err != nil {
		return err
	}
	row := m.rows[position-1]
	for i, col := range columns {
		if col < 1 {
			return fmt.Errorf("invalid column %d", col)
		}
		for len(row) < col {
			row = append(row, nil)
		}
		row[col-1] = values[i]
	}
	m.rows[position-1] = row
	return nil
}

// Append adds rows at the end.
func (m *Memory) Append(ctx context.Context, rows []reconcile.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range rows {
		m.rows = append(m.rows, cloneRow(r))
	}
	return nil
}

// Delete removes the row at position; later rows move up by one.
func (m *Memory) Delete(ctx context.Context, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkPosition(position); err != nil {
		return err
	}
	m.rows = append(m.rows[:position-1], m.rows[position:]...)
	return nil
}

// Rows returns a copy of all rows.
func (m *Memory) Rows() []reconcile.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]reconcile.Row, len(m.rows))
	for i, r := range m.rows {
		out[i] = cloneRow(r)
	}
	return out
}

// Len returns the number of rows.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *Memory) checkPosition(position int) error {
	if position < 1 || position > len(m.rows) {
		return fmt.Errorf("position %d out of range (sheet has %d rows)", position, len(m.rows))
	}
	return nil
}

func cloneRow(r reconcile.Row) reconcile.Row {
	return append(reconcile.Row(nil), r...)
}
