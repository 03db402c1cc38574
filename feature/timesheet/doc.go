// Package timesheet implements the calendar-to-sheet reconciliation feature.
//
// It joins the calendar source and a sheet store through the core/reconcile
// engine: events are split into day segments, formatted into rows (date,
// start, end, title, duration, description, ISO week, month, year, weekday,
// link, event id) and reconciled against what the sheet already holds.
//
// # Flows
//
//   - Refresh: re-fetches every date already present in the sheet in one batched
//     query, then updates changed rows, deletes vanished ones and adds new events
//     on those dates only.
//   - Add: fetches a window (by default the sheet's whole period month) and
//     appends events whose identity is not stored yet. This is the only way a
//     date with no rows enters the sheet.
//
// # HTTP Endpoints
//
//   - GET /timesheet/plan : Dry-run refresh plan.
//   - POST /timesheet/refresh : Refresh (supports ?dry_run=true).
//   - POST /timesheet/add : Explicit add (supports ?from=&to=&dry_run=true).
package timesheet
