// Package reconcile provides a storage- and source-agnostic engine for reconciling
// a tabular log against freshly fetched records.
//
// The engine never talks to a calendar or a spreadsheet directly. It works on
// fully materialized rows: the rows currently stored (with their 1-based
// positions) and the rows freshly derived from the source. From those it computes
// a minimal diff and applies it through the Store interface.
//
// # Architecture
//
// The reconcile system consists of three main components:
//
// 1. Layout: the keyer. It knows which columns are managed by the engine, where
//    the identity and date live, and how to turn a row into an identity key and a
//    change-detection snapshot.
//
// 2. Engine: BuildIndex indexes stored rows by identity key, ComputeDiff compares
//    fresh rows against that index and yields additions, updates and deletions.
//
// 3. Applier: Apply writes the diff to a Store, touching managed columns only and
//    deleting positions in descending order so earlier deletions never shift a
//    later target.
//
// # Usage Example
//
//	index := layout.BuildIndex(stored)
//	diff := ComputeDiff(layout, index, fresh)
//	summary, err := Apply(ctx, store, layout, diff, ReconcileOptions{Confirmed: true})
//
// # Errors
//
// Boundary failures are reported with the sentinel kinds ErrSourceUnavailable,
// ErrInvalidContext, ErrEmptyStore and ErrNoCandidateDates. Callers match them
// with errors.Is.
package reconcile
