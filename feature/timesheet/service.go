package timesheet

import (
	"context"
	"fmt"
	"time"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/calendar"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options configures a Service.
type Options struct {
	// Layout describes the sheet's columns.
	Layout reconcile.Layout
	// Period is the sheet's period label (e.g. "2025-08").
	Period string
	// Location is the zone whose midnights split events into days.
	Location *time.Location
	// PlaceholderTitle is written for untitled events.
	PlaceholderTitle string
}

// Service orchestrates reconciliation of one sheet against one source.
type Service struct {
	store     reconcile.Store
	source    calendar.Source
	layout    reconcile.Layout
	formatter Formatter
	period    string
	loc       *time.Location
	logger    *zap.Logger
	sf        singleflight.Group
}

// RefreshResult reports a refresh: what was planned and what was written.
type RefreshResult struct {
	Plan    *reconcile.ReconcilePlan `json:"plan"`
	Applied reconcile.PlanSummary    `json:"applied"`
	DryRun  bool                     `json:"dry_run"`
}

// AddResult reports an explicit add.
type AddResult struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Fresh   int    `json:"fresh"`
	Present int    `json:"present"`
	Added   int    `json:"added"`
	DryRun  bool   `json:"dry_run"`

	// Diff holds the rows to append, header rows included.
	Diff reconcile.Diff `json:"-"`
}

// NewService creates a new timesheet service.
func NewService(store reconcile.Store, source calendar.Source, opts Options, logger *zap.Logger) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		source:    source,
		layout:    opts.Layout,
		formatter: Formatter{Layout: opts.Layout, PlaceholderTitle: opts.PlaceholderTitle},
		period:    opts.Period,
		loc:       loc,
		logger:    logger.With(zap.String("sheet", opts.Period)),
	}
}

// Plan computes the reconciliation plan without writing anything.
func (s *Service) Plan(ctx context.Context) (*reconcile.ReconcilePlan, error) {
	if _, err := ParsePeriod(s.period, s.loc); err != nil {
		return nil, err
	}

	rows, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) <= s.layout.HeaderRows {
		return nil, fmt.Errorf("%w: sheet %q has no rows below the header", reconcile.ErrEmptyStore, s.period)
	}

	idx := s.layout.BuildIndex(rows)
	if len(idx.Dates) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no rows with an event id and date", reconcile.ErrNoCandidateDates, s.period)
	}
	if len(idx.Duplicates) > 0 {
		s.logger.Warn("Duplicate identity keys in sheet; later rows are ignored", zap.Ints("positions", idx.Duplicates))
	}

	// One batched query across every date under reconciliation.
	w, err := calendar.ParseWindow(idx.Dates[0], idx.Dates[len(idx.Dates)-1], s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrNoCandidateDates, err)
	}
	events, err := s.source.Events(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrSourceUnavailable, err)
	}

	fresh := s.formatter.Rows(events, w)
	plan := reconcile.Plan(s.layout, idx, fresh)

	s.logger.Debug("Reconciliation planned",
		zap.Stringer("window", w),
		zap.Int("events", len(events)),
		zap.Int("fresh_rows", len(fresh)),
	)
	return plan, nil
}

// Refresh plans and, unless dry-run, applies the reconciliation.
// Concurrent calls with the same options share one execution. The shared
// execution is not cancelled with any single caller; a caller whose ctx
// ends stops waiting and gets ctx.Err().
func (s *Service) Refresh(ctx context.Context, opts reconcile.ReconcileOptions) (*RefreshResult, error) {
	key := fmt.Sprintf("refresh:%t:%t", opts.DryRun, opts.Confirmed)
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx), opts)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("Refresh result shared with a concurrent caller")
		}
		return res.Val.(*RefreshResult), nil
	}
}

func (s *Service) refresh(ctx context.Context, opts reconcile.ReconcileOptions) (*RefreshResult, error) {
	plan, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, plan, opts)
}

// Apply writes a plan computed earlier by Plan, without consulting the
// source again. Unless dry-run, the store receives exactly plan.Diff.
func (s *Service) Apply(ctx context.Context, plan *reconcile.ReconcilePlan, opts reconcile.ReconcileOptions) (*RefreshResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("%w: no plan to apply", reconcile.ErrInvalidContext)
	}

	result := &RefreshResult{Plan: plan, DryRun: opts.DryRun || !opts.Confirmed}
	if plan.Diff.IsEmpty() {
		s.logger.Info("Sheet already up to date", zap.Int("rows", plan.Summary.Existing))
		result.Applied = reconcile.PlanSummary{Unchanged: plan.Summary.Unchanged, Skipped: plan.Summary.Skipped}
		return result, nil
	}

	applied, err := reconcile.Apply(ctx, s.store, s.layout, plan.Diff, opts)
	result.Applied = applied
	if err != nil {
		s.logger.Error("Refresh stopped part-way; sheet holds the changes applied so far",
			zap.Int("added", applied.Added),
			zap.Int("updated", applied.Updated),
			zap.Int("deleted", applied.Deleted),
			zap.Error(err),
		)
		return result, err
	}

	if !result.DryRun {
		s.logger.Info("Sheet refreshed",
			zap.Int("added", applied.Added),
			zap.Int("updated", applied.Updated),
			zap.Int("deleted", applied.Deleted),
		)
	}
	return result, nil
}

// Add appends every event segment in w whose identity is not yet stored.
// Unlike Refresh it may introduce new dates, and it never updates or deletes.
// A nil window means the whole period month.
func (s *Service) Add(ctx context.Context, w *calendar.Window, opts reconcile.ReconcileOptions) (*AddResult, error) {
	result, err := s.PlanAdd(ctx, w)
	if err != nil {
		return nil, err
	}
	return s.ApplyAdd(ctx, result, opts)
}

// PlanAdd computes what Add would append, without writing anything.
func (s *Service) PlanAdd(ctx context.Context, w *calendar.Window) (*AddResult, error) {
	period, err := ParsePeriod(s.period, s.loc)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = &period
	}

	rows, err := s.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	idx := s.layout.BuildIndex(rows)

	events, err := s.source.Events(ctx, *w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrSourceUnavailable, err)
	}
	fresh := s.formatter.Rows(events, *w)

	result := &AddResult{
		From:   w.Start.Format(calendar.DateLayout),
		To:     w.End.Format(calendar.DateLayout),
		Fresh:  len(fresh),
		DryRun: true,
	}

	var diff reconcile.Diff
	if len(rows) == 0 {
		// A brand-new sheet gets its header before the first data row.
		for i := 0; i < s.layout.HeaderRows; i++ {
			if i == 0 {
				diff.Additions = append(diff.Additions, s.formatter.HeaderRow())
				continue
			}
			diff.Additions = append(diff.Additions, make(reconcile.Row, s.layout.Width()))
		}
	}
	headers := len(diff.Additions)
	seen := make(map[string]struct{}, len(fresh))
	for _, row := range fresh {
		key, ok := s.layout.Key(row)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, exists := idx.Entries[key]; exists {
			result.Present++
			continue
		}
		diff.Additions = append(diff.Additions, row)
	}

	result.Added = len(diff.Additions) - headers
	if result.Added > 0 {
		result.Diff = diff
	}
	return result, nil
}

// ApplyAdd appends the rows of an add computed earlier by PlanAdd.
func (s *Service) ApplyAdd(ctx context.Context, planned *AddResult, opts reconcile.ReconcileOptions) (*AddResult, error) {
	if planned == nil {
		return nil, fmt.Errorf("%w: no add to apply", reconcile.ErrInvalidContext)
	}
	result := *planned
	result.DryRun = opts.DryRun || !opts.Confirmed
	if result.Added == 0 {
		return &result, nil
	}

	if _, err := reconcile.Apply(ctx, s.store, s.layout, result.Diff, opts); err != nil {
		return &result, err
	}
	if !result.DryRun {
		s.logger.Info("Events added to sheet", zap.Int("added", result.Added), zap.String("from", result.From), zap.String("to", result.To))
	}
	return &result, nil
}
