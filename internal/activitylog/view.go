package activitylog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jobboard-backend/internal/models"
	"jobboard-backend/internal/timeutil"
)

// RecordSource returns up to limit activity-log records in no particular order
type RecordSource interface {
	FetchRecords(ctx context.Context, limit int) ([]models.LogRecord, error)
}

// LoadState is the fetch state of a View
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
)

// View is the working state behind one activity-log screen: the fetched
// records plus filter, sort and page. It is owned by a single caller and is
// not safe for concurrent use.
type View struct {
	source   RecordSource
	clock    timeutil.Clock
	logger   *zap.Logger
	limit    int
	pageSize int

	records []models.LogRecord
	filter  FilterState
	sort    SortState
	page    int
	state   LoadState
}

// Option configures a View
type Option func(*View)

// WithClock injects the time source used for date presets
func WithClock(c timeutil.Clock) Option {
	return func(v *View) { v.clock = c }
}

// WithLogger sets the logger used to report fetch failures
func WithLogger(l *zap.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithPageSize overrides DefaultPageSize
func WithPageSize(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.pageSize = n
		}
	}
}

// WithFetchLimit overrides FetchLimit
func WithFetchLimit(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.limit = n
		}
	}
}

// NewView creates a view with no filters, newest-first sort and page 1
func NewView(source RecordSource, opts ...Option) *View {
	v := &View{
		source:   source,
		clock:    timeutil.SystemClock,
		logger:   zap.NewNop(),
		limit:    FetchLimit,
		pageSize: DefaultPageSize,
		filter:   FilterState{DatePreset: PresetAll},
		sort:     DefaultSort(),
		page:     1,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Refresh fetches the record set once. On failure the working set becomes
// empty, the error is logged and returned; there is no retry.
func (v *View) Refresh(ctx context.Context) error {
	v.state = StateLoading
	defer func() { v.state = StateIdle }()

	records, err := v.source.FetchRecords(ctx, v.limit)
	if err != nil {
		v.logger.Error("activity log fetch failed",
			zap.Int("limit", v.limit),
			zap.Error(err),
		)
		v.records = nil
		return err
	}
	if len(records) > v.limit {
		records = records[:v.limit]
	}
	v.records = records
	return nil
}

// State reports whether a fetch is in flight
func (v *View) State() LoadState { return v.state }

// Filter returns the active filters
func (v *View) Filter() FilterState { return v.filter }

// Sort returns the active sort
func (v *View) Sort() SortState { return v.sort }

// PageNumber returns the current 1-based page
func (v *View) PageNumber() int { return v.page }

// SetPreset applies a date preset relative to the injected clock
func (v *View) SetPreset(p DatePreset) {
	v.filter = v.filter.WithPreset(p, v.clock.Now())
	v.page = 1
}

// SetStartDate is a manual edit; the preset becomes custom
func (v *View) SetStartDate(d *time.Time) {
	v.filter = v.filter.WithStartDate(d)
	v.page = 1
}

// SetEndDate is a manual edit; the preset becomes custom
func (v *View) SetEndDate(d *time.Time) {
	v.filter = v.filter.WithEndDate(d)
	v.page = 1
}

// SetAdminEmail sets the admin email substring filter
func (v *View) SetAdminEmail(email string) {
	v.filter.AdminEmail = email
	v.page = 1
}

// SetActionType restricts results to one log type
func (v *View) SetActionType(t string) {
	v.filter.ActionType = t
	v.page = 1
}

// SetSort replaces the sort outright
func (v *View) SetSort(s SortState) {
	v.sort = s
	v.page = 1
}

// ToggleSort handles a click on a column header
func (v *View) ToggleSort(key SortKey) {
	v.sort = ToggleSort(v.sort, key)
	v.page = 1
}

// GoToPage moves to page n if it exists and reports whether it moved
func (v *View) GoToPage(n int) bool {
	total := TotalPages(len(v.Results()), v.pageSize)
	page, ok := NavigatePage(v.page, n, total)
	v.page = page
	return ok
}

// Results is the full filtered and sorted record set
func (v *View) Results() []models.LogRecord {
	return SortRecords(FilterRecords(v.records, v.filter), v.sort)
}

// CurrentPage slices Results for the current page
func (v *View) CurrentPage() Page {
	return Paginate(v.Results(), v.pageSize, v.page)
}

// ExportRows flattens the full result set, not only the current page
func (v *View) ExportRows(l Labels) []ExportRow {
	return ToExportRows(v.Results(), l)
}
