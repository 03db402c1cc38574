// Package calendar is the event side of timesheet-sync.
//
// It defines the timed Event the reconcile flow consumes, the Window an event
// query covers, the day Segments an event is split into, and an ICS-backed
// Source that fetches subscription feeds, parses VEVENTs and expands
// recurrences.
//
// # Segmenting
//
// Split walks an event from its start in the window's location, cutting it at
// every local midnight. A segment is kept only when it is non-empty and starts
// inside the window, so a night shift from 22:00 to 02:00 becomes two segments,
// 22:00-24:00 and 00:00-02:00, each on its own date.
//
// # Sources
//
//   - ICSSource: HTTP(S) ICS feeds, parsed with golang-ical and expanded with rrule-go.
//   - SourceFunc: adapts a plain function, mostly for tests and static fixtures.
//
// All-day events are dropped by the source; only events with concrete start
// and end instants ever reach the segmenter.
package calendar
