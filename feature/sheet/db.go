package sheet

import (
	"context"
	"errors"
	"fmt"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/core/utils"

	"gorm.io/gorm"
)

// TableName is the table holding sheet rows.
const TableName = "sheet_rows"

// Row is the persisted form of one sheet row.
type Row struct {
	ID       uint     `gorm:"primaryKey;column:id"`
	Sheet    string   `gorm:"column:sheet;type:varchar(100);not null;index:idx_sheet_position"`
	Position int      `gorm:"column:position;not null;index:idx_sheet_position"`
	Cells    []string `gorm:"column:cells;type:text;serializer:json"`
}

// TableName overrides the gorm table name.
func (Row) TableName() string {
	return TableName
}

// DB is a sheet stored as ordered rows of a database table.
type DB struct {
	db   *gorm.DB
	name string
}

// NewDB creates a sheet bound to the named rows of the sheet_rows table.
func NewDB(db *gorm.DB, name string) *DB {
	return &DB{db: db, name: name}
}

// Migrate creates or updates the sheet_rows table.
func (s *DB) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Row{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return nil
}

// Read returns every row of the sheet ordered by position.
func (s *DB) Read(ctx context.Context) ([]reconcile.StoredRow, error) {
	var rows []Row
	if err := s.db.WithContext(ctx).Where("sheet = ?", s.name).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", s.name, err)
	}

	out := make([]reconcile.StoredRow, len(rows))
	for i, r := range rows {
		values := make(reconcile.Row, len(r.Cells))
		for j, c := range r.Cells {
			values[j] = c
		}
		out[i] = reconcile.StoredRow{Position: r.Position, Values: values}
	}
	return out, nil
}

// Write sets the listed columns of the row at position.
func (s *DB) Write(ctx context.Context, position int, columns []int, values []any) error {
	if len(columns) != len(values) {
		return fmt.Errorf("%d columns but %d values", len(columns), len(values))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Row
		err := tx.Where("sheet = ? AND position = ?", s.name, position).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("position %d not found in sheet %q", position, s.name)
		}
		if err != nil {
			return err
		}

		for i, col := range columns {
			if col < 1 {
				return fmt.Errorf("invalid column %d", col)
			}
			for len(row.Cells) < col {
				row.Cells = append(row.Cells, "")
			}
			row.Cells[col-1] = utils.ToString(values[i])
		}
		return tx.Save(&row).Error
	})
}

// Append adds rows after the last position.
func (s *DB) Append(ctx context.Context, rows []reconcile.Row) error {
	if len(rows) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&Row{}).Where("sheet = ?", s.name).
			Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return err
		}

		records := make([]Row, len(rows))
		for i, r := range rows {
			records[i] = Row{Sheet: s.name, Position: last + i + 1, Cells: utils.ToStrings(r)}
		}
		return tx.CreateInBatches(records, 100).Error
	})
}

// Delete removes the row at position and shifts later rows up by one.
func (s *DB) Delete(ctx context.Context, position int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("sheet = ? AND position = ?", s.name, position).Delete(&Row{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("position %d not found in sheet %q", position, s.name)
		}
		return tx.Model(&Row{}).Where("sheet = ? AND position > ?", s.name, position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
}
