// Package integrity provides health checks for the timesheet and its storage.
//
// # Checks Provided
//
//   - Sheet: duplicate identity keys, rows with an event id but an invalid date,
//     and header cells that differ from the expected column names.
//   - Schema: for the db backend, the sheet_rows table against the gorm model.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/sheet : Runs the sheet check (supports ?fix=true to drop duplicates).
//   - GET /integrity/schema : Runs the schema check.
package integrity
