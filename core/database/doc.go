// Package database opens gorm connections and inspects table schemas.
//
// Connect supports MySQL for deployments and SQLite for local runs and tests.
// GetTableColumns reports a table's columns in a dialect-neutral form; the
// integrity feature compares it with the sheet_rows model.
//
//	db, err := database.Connect(cfg.Database)
//	columns, err := database.GetTableColumns(db, "sheet_rows")
package database
