package timeutil

import (
	"time"
)

// KST is the Korea Standard Time location (UTC+9)
var KST *time.Location

func init() {
	var err error
	KST, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		// Fallback: create fixed zone if Asia/Seoul not available
		KST = time.FixedZone("KST", 9*60*60)
	}
}

// Clock supplies the current time. Code that computes "today" takes a Clock
// instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in KST
var SystemClock Clock = ClockFunc(Now)

// FixedClock always returns t
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Now returns the current time in KST
func Now() time.Time {
	return time.Now().In(KST)
}

// ParseInKST parses a time string and returns it in KST
func ParseInKST(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, KST)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatKST formats a time in KST using the given layout
func FormatKST(t time.Time, layout string) string {
	return t.In(KST).Format(layout)
}

// StartOfDay returns the start of day (00:00:00) in KST for the given time
func StartOfDay(t time.Time) time.Time {
	k := t.In(KST)
	return time.Date(k.Year(), k.Month(), k.Day(), 0, 0, 0, 0, KST)
}

// EndOfDay returns the last representable instant of the day in KST
func EndOfDay(t time.Time) time.Time {
	k := t.In(KST)
	return time.Date(k.Year(), k.Month(), k.Day(), 23, 59, 59, 999999999, KST)
}

// AddDays shifts a calendar day in KST, keeping midnight
func AddDays(t time.Time, days int) time.Time {
	k := StartOfDay(t)
	return time.Date(k.Year(), k.Month(), k.Day()+days, 0, 0, 0, 0, KST)
}

// Common layouts for KST formatting
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
