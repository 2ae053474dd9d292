package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"jobboard-backend/internal/timeutil"
)

// LogType is the category of an activity log entry. Values outside the
// known set are kept as-is.
type LogType string

const (
	LogTypeContentChange LogType = "content_change"
	LogTypeUserAction    LogType = "user_action"
	LogTypeSystem        LogType = "system"
	LogTypeLogin         LogType = "login"
	LogTypeAdmin         LogType = "admin"
)

// LogTypes lists the known categories in display order
var LogTypes = []LogType{
	LogTypeContentChange,
	LogTypeUserAction,
	LogTypeSystem,
	LogTypeLogin,
	LogTypeAdmin,
}

// Known reports whether t is one of the enumerated categories
func (t LogType) Known() bool {
	for _, k := range LogTypes {
		if t == k {
			return true
		}
	}
	return false
}

// LogRecord is one recorded administrative or system action.
// A nil AdminEmail means the action was performed by the system.
type LogRecord struct {
	ID              string         `json:"id" db:"id"`
	Type            LogType        `json:"type" db:"type"`
	Action          string         `json:"action" db:"action"`
	AdminEmail      *string        `json:"adminEmail,omitempty" db:"admin_email"`
	Description     *string        `json:"description,omitempty" db:"description"`
	TargetUserEmail *string        `json:"targetUserEmail,omitempty" db:"target_user_email"`
	ContentID       *string        `json:"contentId,omitempty" db:"content_id"`
	Reason          *string        `json:"reason,omitempty" db:"reason"`
	Changes         map[string]any `json:"changes,omitempty" db:"changes"`
	Timestamp       Timestamp      `json:"timestamp" db:"created_at"`
}

// CreateLogRequest is the payload for recording a new activity
type CreateLogRequest struct {
	Type            LogType        `json:"type"`
	Action          string         `json:"action"`
	AdminEmail      *string        `json:"adminEmail,omitempty"`
	Description     *string        `json:"description,omitempty"`
	TargetUserEmail *string        `json:"targetUserEmail,omitempty"`
	ContentID       *string        `json:"contentId,omitempty"`
	Reason          *string        `json:"reason,omitempty"`
	Changes         map[string]any `json:"changes,omitempty"`
	Timestamp       *Timestamp     `json:"timestamp,omitempty"`
}

var (
	ErrMissingType   = errors.New("type is required")
	ErrMissingAction = errors.New("action is required")
)

// Validate checks the required fields. Unknown types are accepted.
func (r *CreateLogRequest) Validate() error {
	if strings.TrimSpace(string(r.Type)) == "" {
		return ErrMissingType
	}
	if strings.TrimSpace(r.Action) == "" {
		return ErrMissingAction
	}
	return nil
}

// StringPtr returns a pointer to s, or nil for an empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Timestamp holds a point in time that arrived in one of three encodings:
// an ISO-8601 string, epoch milliseconds, or a wrapped {seconds, nanoseconds}
// object. The zero value is a missing timestamp.
type Timestamp struct {
	t  time.Time
	ok bool
}

// TimestampOf wraps a native time
func TimestampOf(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{t: t, ok: true}
}

// TimestampFromMillis converts epoch milliseconds
func TimestampFromMillis(ms int64) Timestamp {
	return TimestampOf(time.UnixMilli(ms))
}

// TimestampFromSeconds converts a wrapped seconds/nanoseconds pair
func TimestampFromSeconds(sec, nanos int64) Timestamp {
	return TimestampOf(time.Unix(sec, nanos))
}

// ParseTimestamp reads an ISO-8601 string. Strings without a zone are read
// as KST. Unparseable input yields a missing timestamp.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return TimestampOf(t)
	}
	for _, layout := range localLayouts {
		if t, err := timeutil.ParseInKST(layout, s); err == nil {
			return TimestampOf(t)
		}
	}
	return Timestamp{}
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	timeutil.DateLayout,
}

// Time returns the normalized instant and whether one is present
func (ts Timestamp) Time() (time.Time, bool) {
	return ts.t, ts.ok
}

// Valid reports whether the timestamp could be normalized
func (ts Timestamp) Valid() bool {
	return ts.ok
}

// Compare orders timestamps like time.Time.Compare. A missing value sorts
// before everything and equal to another missing value.
func (ts Timestamp) Compare(other Timestamp) int {
	switch {
	case !ts.ok && !other.ok:
		return 0
	case !ts.ok:
		return -1
	case !other.ok:
		return 1
	}
	return ts.t.Compare(other.t)
}

// MarshalJSON always emits the canonical RFC 3339 form, or null
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.ok {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t.In(timeutil.KST).Format(time.RFC3339Nano))
}

type wrappedTimestamp struct {
	Seconds          *int64 `json:"seconds"`
	Nanoseconds      int64  `json:"nanoseconds"`
	UnderSeconds     *int64 `json:"_seconds"`
	UnderNanoseconds int64  `json:"_nanoseconds"`
}

// UnmarshalJSON accepts all three encodings. Anything it cannot read becomes
// a missing timestamp rather than a decode error.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*ts = ParseTimestamp(s)
		}
	case '{':
		var w wrappedTimestamp
		if err := json.Unmarshal(data, &w); err != nil {
			return nil
		}
		switch {
		case w.Seconds != nil:
			*ts = TimestampFromSeconds(*w.Seconds, w.Nanoseconds)
		case w.UnderSeconds != nil:
			*ts = TimestampFromSeconds(*w.UnderSeconds, w.UnderNanoseconds)
		}
	default:
		var ms float64
		if err := json.Unmarshal(data, &ms); err == nil && ms >= math.MinInt64 && ms < math.MaxInt64 {
			*ts = TimestampFromMillis(int64(ms))
		}
	}
	return nil
}
