package activitylog

import (
	"time"

	"jobboard-backend/internal/models"
	"jobboard-backend/internal/timeutil"
)

func kst(y int, m time.Month, d, hh, mm, ss, ms int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, ms*int(time.Millisecond), timeutil.KST)
}

func day(s string) *time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func rec(id string, typ models.LogType, email string, ts time.Time) models.LogRecord {
	return models.LogRecord{
		ID:         id,
		Type:       typ,
		Action:     "approve",
		AdminEmail: models.StringPtr(email),
		Timestamp:  models.TimestampOf(ts),
	}
}

func ids(records []models.LogRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
