// Package sheet provides the row stores a timesheet can live in.
//
// Three backends implement reconcile.Store:
//   - Memory: an ordered slice, used by tests and dry runs.
//   - DB: rows of the sheet_rows table, one sheet per name, accessed through gorm.
//   - Object: a CSV object in S3-compatible storage, buffered and uploaded on Flush.
//
// Positions are 1-based and contiguous. Deleting a row moves every later row up.
package sheet
