package reconcile

import (
	"context"
	"fmt"
	"slices"
	"sort"
)

// Apply writes a diff to the store and returns what was changed.
//
// Updates write the managed columns only, so free-form cells at the same
// position survive. Additions are appended in fresh order. Deletions are
// removed one at a time in descending position order; since deleting a row
// shifts every later row up by one, going from the bottom keeps every pending
// position valid.
//
// Nothing is written unless opts.Confirmed is set and opts.DryRun is not.
// There is no rollback: on error the returned summary reports the mutations
// that did succeed, and the store is left in that intermediate state.
func Apply(ctx context.Context, store Store, l Layout, diff Diff, opts ReconcileOptions) (applied PlanSummary, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return applied, nil
	}

	for _, upd := range diff.Updates {
		if err := store.Write(ctx, upd.Position, l.ManagedColumns, l.Managed(upd.Values)); err != nil {
			return applied, fmt.Errorf("failed to update row %d (%s): %w", upd.Position, upd.Key, err)
		}
		applied.Updated++
	}

	if len(diff.Additions) > 0 {
		if err := store.Append(ctx, diff.Additions); err != nil {
			return applied, fmt.Errorf("failed to append %d rows: %w", len(diff.Additions), err)
		}
		applied.Added = len(diff.Additions)
	}

	for _, pos := range descending(diff.Deletions) {
		if err := store.Delete(ctx, pos); err != nil {
			return applied, fmt.Errorf("failed to delete row %d: %w", pos, err)
		}
		applied.Deleted++
	}

	if f, ok := store.(Flusher); ok {
		if err := f.Flush(ctx); err != nil {
			return applied, fmt.Errorf("failed to flush store: %w", err)
		}
	}

	applied.Unchanged = diff.Unchanged
	applied.Skipped = diff.Skipped
	return applied, nil
}

// descending returns a sorted copy so a hand-built diff is still applied bottom-up.
func descending(positions []int) []int {
	out := slices.Clone(positions)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
