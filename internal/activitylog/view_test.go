package activitylog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"jobboard-backend/internal/models"
	"jobboard-backend/internal/timeutil"
)

type fakeSource struct {
	records []models.LogRecord
	err     error
	calls   int
	limit   int
}

func (f *fakeSource) FetchRecords(_ context.Context, limit int) ([]models.LogRecord, error) {
	f.calls++
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func TestViewRefreshFailureYieldsEmptySet(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	src := &fakeSource{records: makeRecords(3)}
	v := NewView(src, WithLogger(zap.New(core)))

	require.NoError(t, v.Refresh(context.Background()))
	assert.Len(t, v.Results(), 3)
	assert.Equal(t, FetchLimit, src.limit)

	src.err = errors.New("firestore unavailable")
	err := v.Refresh(context.Background())
	assert.Error(t, err)
	assert.Empty(t, v.Results())
	assert.Equal(t, StateIdle, v.State())
	assert.Equal(t, 2, src.calls, "no retry")
	assert.Equal(t, 1, logs.FilterMessage("activity log fetch failed").Len())
}

func TestViewRefreshCapsAtLimit(t *testing.T) {
	src := &fakeSource{records: makeRecords(30)}
	v := NewView(src, WithFetchLimit(25))
	require.NoError(t, v.Refresh(context.Background()))
	assert.Len(t, v.Results(), 25)
}

func TestViewResetsPageOnFilterAndSortChange(t *testing.T) {
	src := &fakeSource{records: makeRecords(45)}
	v := NewView(src, WithClock(timeutil.FixedClock(kst(2024, 3, 10, 9, 0, 0, 0))))
	require.NoError(t, v.Refresh(context.Background()))

	assert.True(t, v.GoToPage(3))
	assert.Equal(t, 3, v.PageNumber())
	v.SetAdminEmail("")
	assert.Equal(t, 1, v.PageNumber())

	require.True(t, v.GoToPage(2))
	v.ToggleSort(SortByAdminEmail)
	assert.Equal(t, 1, v.PageNumber())
	assert.Equal(t, SortState{Key: SortByAdminEmail, Direction: Desc}, v.Sort())

	require.True(t, v.GoToPage(2))
	v.SetActionType("admin")
	assert.Equal(t, 1, v.PageNumber())
}

func TestViewGoToPageClamps(t *testing.T) {
	v := NewView(&fakeSource{records: makeRecords(45)})
	require.NoError(t, v.Refresh(context.Background()))
	require.True(t, v.GoToPage(2))

	assert.False(t, v.GoToPage(4))
	assert.Equal(t, 2, v.PageNumber())
	assert.False(t, v.GoToPage(0))
	assert.Equal(t, 2, v.PageNumber())

	page := v.CurrentPage()
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 20, page.StartIndex)
}

func TestViewPresetUsesInjectedClock(t *testing.T) {
	v := NewView(&fakeSource{}, WithClock(timeutil.FixedClock(kst(2024, 3, 10, 23, 0, 0, 0))))

	v.SetPreset(PresetWeek)
	f := v.Filter()
	assert.Equal(t, "2024-03-03", f.StartDate.Format(timeutil.DateLayout))
	assert.Equal(t, "2024-03-10", f.EndDate.Format(timeutil.DateLayout))

	v.SetStartDate(day("2024-03-01"))
	assert.Equal(t, PresetCustom, v.Filter().DatePreset)
	assert.Equal(t, "2024-03-10", v.Filter().EndDate.Format(timeutil.DateLayout))
}

func TestViewExportRowsCoverWholeResult(t *testing.T) {
	v := NewView(&fakeSource{records: makeRecords(45)})
	require.NoError(t, v.Refresh(context.Background()))
	require.True(t, v.GoToPage(3))
	assert.Len(t, v.ExportRows(KoreanLabels), 45)
}
