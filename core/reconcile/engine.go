package reconcile

import (
	"sort"
)

// BuildIndex indexes stored rows by identity key.
// Header rows, rows without an identity and rows without a valid date are ignored.
// When two rows share a key the first one wins and the later position is
// recorded in Duplicates.
func (l Layout) BuildIndex(rows []StoredRow) Index {
	idx := Index{
		Entries: make(map[string]Entry),
		dateSet: make(map[string]struct{}),
	}

	for _, row := range rows {
		if row.Position <= l.HeaderRows {
			continue
		}
		key, ok := l.Key(row.Values)
		if !ok {
			continue
		}
		if _, exists := idx.Entries[key]; exists {
			idx.Duplicates = append(idx.Duplicates, row.Position)
			continue
		}
		idx.Entries[key] = Entry{
			Position: row.Position,
			Snapshot: l.Snapshot(row.Values),
		}

		date, _ := l.Date(row.Values)
		idx.dateSet[date] = struct{}{}
	}

	idx.Dates = make([]string, 0, len(idx.dateSet))
	for date := range idx.dateSet {
		idx.Dates = append(idx.Dates, date)
	}
	sort.Strings(idx.Dates)

	return idx
}

// ComputeDiff compares fresh rows against the stored index.
//
// For each fresh row: an existing key with a different snapshot becomes an
// update, an equal snapshot is a no-op, and an unknown key becomes an addition
// only if its date is already represented in the index. Keys of the index that
// no fresh row produced become deletions.
//
// The result depends only on the inputs: updates and additions follow fresh
// order, deletions are sorted by descending position.
func ComputeDiff(l Layout, idx Index, fresh []Row) Diff {
	var diff Diff
	seen := make(map[string]struct{}, len(fresh))

	for _, row := range fresh {
		key, ok := l.Key(row)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		entry, exists := idx.Entries[key]
		if !exists {
			date, _ := l.Date(row)
			if idx.HasDate(date) {
				diff.Additions = append(diff.Additions, row)
			} else {
				diff.Skipped++
			}
			continue
		}

		if entry.Snapshot == l.Snapshot(row) {
			diff.Unchanged++
			continue
		}
		diff.Updates = append(diff.Updates, Update{
			Position: entry.Position,
			Key:      key,
			Values:   row,
		})
	}

	for key, entry := range idx.Entries {
		if _, ok := seen[key]; !ok {
			diff.Deletions = append(diff.Deletions, entry.Position)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(diff.Deletions)))

	return diff
}

// Plan builds a ReconcilePlan from an index and fresh rows.
func Plan(l Layout, idx Index, fresh []Row) *ReconcilePlan {
	diff := ComputeDiff(l, idx, fresh)

	plan := &ReconcilePlan{
		Diff: diff,
		Summary: PlanSummary{
			Existing:   len(idx.Entries),
			Fresh:      len(fresh),
			Added:      len(diff.Additions),
			Updated:    len(diff.Updates),
			Deleted:    len(diff.Deletions),
			Unchanged:  diff.Unchanged,
			Skipped:    diff.Skipped,
			Duplicates: len(idx.Duplicates),
		},
	}
	if len(idx.Dates) > 0 {
		plan.From = idx.Dates[0]
		plan.To = idx.Dates[len(idx.Dates)-1]
	}
	return plan
}
