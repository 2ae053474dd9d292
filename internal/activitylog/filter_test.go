package activitylog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/models"
	"jobboard-backend/internal/timeutil"
)

func TestApplyDatePreset(t *testing.T) {
	today := kst(2024, 3, 10, 15, 30, 0, 0)
	manual := DateRange{Start: day("2023-12-01"), End: day("2023-12-31")}

	tests := []struct {
		preset     DatePreset
		start, end string
	}{
		{PresetAll, "", ""},
		{PresetToday, "2024-03-10", "2024-03-10"},
		{PresetYesterday, "2024-03-09", "2024-03-09"},
		{PresetWeek, "2024-03-03", "2024-03-10"},
		{PresetMonth, "2024-02-09", "2024-03-10"},
		{PresetCustom, "2023-12-01", "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			r := ApplyDatePreset(tt.preset, today, manual)
			if tt.start == "" {
				assert.Nil(t, r.Start)
				assert.Nil(t, r.End)
				return
			}
			require.NotNil(t, r.Start)
			require.NotNil(t, r.End)
			assert.Equal(t, tt.start, r.Start.Format(timeutil.DateLayout))
			assert.Equal(t, tt.end, r.End.Format(timeutil.DateLayout))
		})
	}
}

func TestManualDateEditDemotesPreset(t *testing.T) {
	today := kst(2024, 3, 10, 9, 0, 0, 0)

	f := FilterState{}.WithPreset(PresetWeek, today)
	assert.Equal(t, PresetWeek, f.DatePreset)

	f = f.WithEndDate(day("2024-03-05"))
	assert.Equal(t, PresetCustom, f.DatePreset)
	assert.Equal(t, "2024-03-03", f.StartDate.Format(timeutil.DateLayout))
	assert.Equal(t, "2024-03-05", f.EndDate.Format(timeutil.DateLayout))

	// a preset chosen afterwards overwrites the manual bounds
	f = f.WithPreset(PresetToday, today)
	assert.Equal(t, "2024-03-10", f.StartDate.Format(timeutil.DateLayout))
	assert.Equal(t, "2024-03-10", f.EndDate.Format(timeutil.DateLayout))
}

func TestFilterRecordsDateRangeScenario(t *testing.T) {
	records := []models.LogRecord{
		{ID: "a", Type: models.LogTypeLogin, AdminEmail: models.StringPtr("x@y.com"), Timestamp: models.ParseTimestamp("2024-01-01T10:00:00Z")},
		{ID: "b", Type: models.LogTypeAdmin, AdminEmail: models.StringPtr("x@y.com"), Timestamp: models.ParseTimestamp("2024-01-03T10:00:00Z")},
	}

	got := FilterRecords(records, FilterState{StartDate: day("2024-01-02"), EndDate: day("2024-01-04")})
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestFilterRecordsEndDateIsInclusive(t *testing.T) {
	records := []models.LogRecord{
		rec("last-ms", models.LogTypeAdmin, "a@b.com", kst(2024, 5, 1, 23, 59, 59, 999)),
		rec("next-day", models.LogTypeAdmin, "a@b.com", kst(2024, 5, 2, 0, 0, 0, 0)),
		rec("first-ms", models.LogTypeAdmin, "a@b.com", kst(2024, 5, 1, 0, 0, 0, 0)),
		rec("prev-day", models.LogTypeAdmin, "a@b.com", kst(2024, 4, 30, 23, 59, 59, 999)),
	}

	got := FilterRecords(records, FilterState{StartDate: day("2024-05-01"), EndDate: day("2024-05-01")})
	assert.Equal(t, []string{"last-ms", "first-ms"}, ids(got))
}

func TestFilterRecordsAdminEmail(t *testing.T) {
	system := models.LogRecord{ID: "sys", Type: models.LogTypeSystem, Timestamp: models.TimestampOf(kst(2024, 1, 1, 0, 0, 0, 0))}
	records := []models.LogRecord{
		rec("1", models.LogTypeAdmin, "Alice@Campus.ac.kr", kst(2024, 1, 1, 0, 0, 0, 0)),
		rec("2", models.LogTypeAdmin, "bob@campus.ac.kr", kst(2024, 1, 1, 0, 0, 0, 0)),
		system,
	}

	got := FilterRecords(records, FilterState{AdminEmail: "alice@CAMPUS"})
	assert.Equal(t, []string{"1"}, ids(got))

	got = FilterRecords(records, FilterState{AdminEmail: "campus"})
	assert.Equal(t, []string{"1", "2"}, ids(got))

	got = FilterRecords(records, FilterState{})
	assert.Len(t, got, 3)
}

func TestFilterRecordsActionTypeExactMatch(t *testing.T) {
	records := []models.LogRecord{
		rec("1", models.LogTypeLogin, "a@b.com", kst(2024, 1, 1, 0, 0, 0, 0)),
		rec("2", models.LogTypeAdmin, "a@b.com", kst(2024, 1, 1, 0, 0, 0, 0)),
		rec("3", models.LogType("job_post"), "a@b.com", kst(2024, 1, 1, 0, 0, 0, 0)),
	}

	assert.Equal(t, []string{"2"}, ids(FilterRecords(records, FilterState{ActionType: "admin"})))
	assert.Equal(t, []string{"3"}, ids(FilterRecords(records, FilterState{ActionType: "job_post"})))
	assert.Empty(t, FilterRecords(records, FilterState{ActionType: "adm"}))
}

func TestFilterRecordsMalformedTimestamp(t *testing.T) {
	broken := models.LogRecord{ID: "broken", Type: models.LogTypeSystem}
	records := []models.LogRecord{broken, rec("ok", models.LogTypeAdmin, "a@b.com", kst(2024, 1, 1, 12, 0, 0, 0))}

	assert.Equal(t, []string{"broken", "ok"}, ids(FilterRecords(records, FilterState{})))
	assert.Equal(t, []string{"ok"}, ids(FilterRecords(records, FilterState{EndDate: day("2024-12-31")})))
}

func TestFilterRecordsIsIdempotentAndPure(t *testing.T) {
	records := []models.LogRecord{
		rec("1", models.LogTypeLogin, "alice@campus.ac.kr", kst(2024, 1, 1, 9, 0, 0, 0)),
		rec("2", models.LogTypeAdmin, "bob@campus.ac.kr", kst(2024, 1, 5, 9, 0, 0, 0)),
		rec("3", models.LogTypeAdmin, "alice@campus.ac.kr", kst(2024, 1, 9, 9, 0, 0, 0)),
		{ID: "4", Type: models.LogTypeSystem},
	}
	before := ids(records)

	filters := []FilterState{
		{},
		{AdminEmail: "alice"},
		{ActionType: "admin", StartDate: day("2024-01-02")},
		{StartDate: day("2024-01-01"), EndDate: day("2024-01-05"), AdminEmail: "campus"},
	}
	for _, f := range filters {
		once := FilterRecords(records, f)
		twice := FilterRecords(once, f)
		assert.Equal(t, once, twice)
	}
	assert.Equal(t, before, ids(records))
}

func TestParseDatePreset(t *testing.T) {
	p, err := ParseDatePreset("")
	require.NoError(t, err)
	assert.Equal(t, PresetAll, p)

	p, err = ParseDatePreset("Week")
	require.NoError(t, err)
	assert.Equal(t, PresetWeek, p)

	_, err = ParseDatePreset("fortnight")
	assert.Error(t, err)
}
