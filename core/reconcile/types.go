package reconcile

import "context"

// Row is a full-width tabular row. Index i holds column i+1.
// Values may be strings, numbers, time.Time or nil depending on the backend.
type Row []any

// StoredRow is a row as read back from a store, with its 1-based position.
// The position is only stable until a delete renumbers later rows.
type StoredRow struct {
	Position int
	Values   Row
}

// Store is the tabular destination the engine reconciles into.
type Store interface {
	// Read returns every row of the store, header rows included, in position order.
	Read(ctx context.Context) ([]StoredRow, error)

	// Write sets the given 1-based columns of the row at position.
	// Columns not listed must be left untouched.
	Write(ctx context.Context, position int, columns []int, values []any) error

	// Append adds rows at the end of the store, in order.
	Append(ctx context.Context, rows []Row) error

	// Delete removes the row at position. Every later row moves up by one.
	Delete(ctx context.Context, position int) error
}

// Flusher is implemented by stores that buffer mutations (e.g. a CSV object)
// and need a final write once all changes are applied.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Entry is the indexed state of one stored row.
type Entry struct {
	// Position is the 1-based row position in the store.
	Position int `json:"position"`

	// Snapshot is the canonical concatenation of the row's managed values.
	Snapshot string `json:"-"`
}

// Index is the existing side of a reconciliation.
type Index struct {
	// Entries maps identity key to stored position and snapshot.
	Entries map[string]Entry

	// Dates is the sorted set of distinct dates present in Entries.
	Dates []string

	// Duplicates lists positions whose key was already taken by an earlier row.
	// They are left untouched by the engine and reported by integrity checks.
	Duplicates []int

	dateSet map[string]struct{}
}

// HasDate reports whether at least one indexed row falls on date.
func (i Index) HasDate(date string) bool {
	_, ok := i.dateSet[date]
	return ok
}

// Update replaces the managed values of the row at Position.
type Update struct {
	// Position is the 1-based row position to write.
	Position int `json:"position"`

	// Key is the identity key of the row.
	Key string `json:"key"`

	// Values is the fresh full-width row; only managed columns are written.
	Values Row `json:"-"`
}

// Diff is the pure result of comparing stored and fresh rows.
type Diff struct {
	// Additions are fresh rows to append, in fresh order.
	Additions []Row `json:"-"`

	// Updates are stored rows whose snapshot changed, in fresh order.
	Updates []Update `json:"updates"`

	// Deletions are positions whose key vanished, sorted descending.
	Deletions []int `json:"deletions"`

	// Skipped counts fresh rows not added because their date is not under reconciliation.
	Skipped int `json:"skipped"`

	// Unchanged counts fresh rows whose snapshot matched.
	Unchanged int `json:"unchanged"`
}

// IsEmpty reports whether applying the diff would change nothing.
func (d Diff) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Updates) == 0 && len(d.Deletions) == 0
}

// PlanSummary provides aggregate counts for a reconcile plan.
type PlanSummary struct {
	// Existing is the number of indexed stored rows.
	Existing int `json:"existing"`

	// Fresh is the number of fresh rows considered.
	Fresh int `json:"fresh"`

	// Added counts rows appended (or planned to be).
	Added int `json:"added"`

	// Updated counts rows rewritten (or planned to be).
	Updated int `json:"updated"`

	// Deleted counts rows removed (or planned to be).
	Deleted int `json:"deleted"`

	// Unchanged counts fresh rows that needed no write.
	Unchanged int `json:"unchanged"`

	// Skipped counts fresh rows outside the reconciled dates.
	Skipped int `json:"skipped"`

	// Duplicates counts stored rows sharing a key with an earlier row.
	Duplicates int `json:"duplicates"`
}

// ReconcilePlan bundles a diff with its summary.
type ReconcilePlan struct {
	// Diff holds the planned mutations.
	Diff Diff `json:"diff"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`

	// From and To bound the dates the plan covers (yyyy-MM-dd).
	From string `json:"from"`
	To   string `json:"to"`
}

// ReconcileOptions controls whether a plan is written.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the caller has confirmed the mutations.
	// If false, nothing is written regardless of DryRun.
	Confirmed bool
}
