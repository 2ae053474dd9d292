// Package activitylog turns a fetched list of activity-log records into what
// the admin dashboard shows: filtered, sorted, paged and flattened for export.
// Every function here is pure; nothing writes to a record.
package activitylog

import (
	"fmt"
	"strings"
	"time"

	"jobboard-backend/internal/models"
	"jobboard-backend/internal/timeutil"
)

// DatePreset is a named shorthand for a date range
type DatePreset string

const (
	PresetAll       DatePreset = "all"
	PresetToday     DatePreset = "today"
	PresetYesterday DatePreset = "yesterday"
	PresetWeek      DatePreset = "week"
	PresetMonth     DatePreset = "month"
	PresetCustom    DatePreset = "custom"
)

// ParseDatePreset validates a preset token. The empty string means all.
func ParseDatePreset(s string) (DatePreset, error) {
	switch p := DatePreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PresetAll, nil
	case PresetAll, PresetToday, PresetYesterday, PresetWeek, PresetMonth, PresetCustom:
		return p, nil
	default:
		return "", fmt.Errorf("unknown date preset %q", s)
	}
}

// DateRange holds optional calendar-day bounds. Both are KST midnights.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ApplyDatePreset computes the bounds a preset stands for, relative to today.
// For PresetCustom the current bounds are returned unchanged.
func ApplyDatePreset(preset DatePreset, today time.Time, current DateRange) DateRange {
	day := timeutil.StartOfDay(today)
	switch preset {
	case PresetAll:
		return DateRange{}
	case PresetToday:
		return DateRange{Start: datePtr(day), End: datePtr(day)}
	case PresetYesterday:
		y := timeutil.AddDays(day, -1)
		return DateRange{Start: datePtr(y), End: datePtr(y)}
	case PresetWeek:
		return DateRange{Start: datePtr(timeutil.AddDays(day, -7)), End: datePtr(day)}
	case PresetMonth:
		return DateRange{Start: datePtr(timeutil.AddDays(day, -30)), End: datePtr(day)}
	default:
		return current
	}
}

func datePtr(t time.Time) *time.Time {
	return &t
}

// ParseDate reads a YYYY-MM-DD calendar day in KST
func ParseDate(s string) (time.Time, error) {
	return timeutil.ParseInKST(timeutil.DateLayout, strings.TrimSpace(s))
}

// FilterState is the set of active filters. The zero value filters nothing.
type FilterState struct {
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	AdminEmail string     `json:"adminEmail,omitempty"`
	ActionType string     `json:"actionType,omitempty"`
	DatePreset DatePreset `json:"datePreset"`
}

// WithPreset selects a preset. Any preset other than custom overwrites the
// date bounds.
func (f FilterState) WithPreset(p DatePreset, today time.Time) FilterState {
	r := ApplyDatePreset(p, today, DateRange{Start: f.StartDate, End: f.EndDate})
	f.StartDate, f.EndDate = r.Start, r.End
	f.DatePreset = p
	return f
}

// WithStartDate is a manual edit and demotes the preset to custom
func (f FilterState) WithStartDate(d *time.Time) FilterState {
	f.StartDate = normalizeDay(d)
	f.DatePreset = PresetCustom
	return f
}

// WithEndDate is a manual edit and demotes the preset to custom
func (f FilterState) WithEndDate(d *time.Time) FilterState {
	f.EndDate = normalizeDay(d)
	f.DatePreset = PresetCustom
	return f
}

func normalizeDay(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	return datePtr(timeutil.StartOfDay(*d))
}

// FilterRecords keeps the records matching every active filter. The input
// slice is left untouched.
func FilterRecords(records []models.LogRecord, f FilterState) []models.LogRecord {
	var lower, upper time.Time
	if f.StartDate != nil {
		lower = timeutil.StartOfDay(*f.StartDate)
	}
	if f.EndDate != nil {
		upper = timeutil.EndOfDay(*f.EndDate)
	}
	email := strings.ToLower(strings.TrimSpace(f.AdminEmail))

	out := make([]models.LogRecord, 0, len(records))
	for _, rec := range records {
		if f.StartDate != nil || f.EndDate != nil {
			ts, ok := rec.Timestamp.Time()
			if !ok {
				continue
			}
			if f.StartDate != nil && ts.Before(lower) {
				continue
			}
			if f.EndDate != nil && ts.After(upper) {
				continue
			}
		}
		if email != "" {
			if rec.AdminEmail == nil || !strings.Contains(strings.ToLower(*rec.AdminEmail), email) {
				continue
			}
		}
		if f.ActionType != "" && string(rec.Type) != f.ActionType {
			continue
		}
		out = append(out, rec)
	}
	return out
}
