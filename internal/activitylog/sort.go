package activitylog

import (
	"fmt"
	"sort"
	"strings"

	"jobboard-backend/internal/models"
)

// SortKey names a LogRecord field
type SortKey string

const (
	SortByTimestamp       SortKey = "timestamp"
	SortByType            SortKey = "type"
	SortByAction          SortKey = "action"
	SortByAdminEmail      SortKey = "adminEmail"
	SortByTargetUserEmail SortKey = "targetUserEmail"
	SortByDescription     SortKey = "description"
	SortByID              SortKey = "id"
)

// SortKeys lists the sortable fields
var SortKeys = []SortKey{
	SortByTimestamp, SortByType, SortByAction, SortByAdminEmail,
	SortByTargetUserEmail, SortByDescription, SortByID,
}

// ParseSortKey validates a sort key. The empty string means timestamp.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortByTimestamp, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Direction is asc or desc
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection validates a direction token. The empty string means desc.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Desc, nil
	case Asc, Desc:
		return d, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// SortState is the active sort column and direction
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultSort shows the newest entries first
func DefaultSort() SortState {
	return SortState{Key: SortByTimestamp, Direction: Desc}
}

// ToggleSort is a click on a column header. Clicking the active column
// flips desc to asc and anything else to desc; a new column starts at desc.
func ToggleSort(current SortState, key SortKey) SortState {
	if current.Key == key {
		if current.Direction == Desc {
			return SortState{Key: key, Direction: Asc}
		}
		return SortState{Key: key, Direction: Desc}
	}
	return SortState{Key: key, Direction: Desc}
}

// SortRecords returns a stably sorted copy of records
func SortRecords(records []models.LogRecord, s SortState) []models.LogRecord {
	out := make([]models.LogRecord, len(records))
	copy(out, records)

	if s.Key == SortByTimestamp {
		sort.SliceStable(out, func(i, j int) bool {
			c := out[i].Timestamp.Compare(out[j].Timestamp)
			if s.Direction == Asc {
				return c < 0
			}
			return c > 0
		})
		return out
	}

	if _, ok := fieldValue(models.LogRecord{}, s.Key); !ok {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := fieldValue(out[i], s.Key)
		b, _ := fieldValue(out[j], s.Key)
		if s.Direction == Asc {
			return a < b
		}
		return a > b
	})
	return out
}

// fieldValue reads a sortable string field; absent optional fields read as
// the empty string
func fieldValue(rec models.LogRecord, key SortKey) (string, bool) {
	switch key {
	case SortByType:
		return string(rec.Type), true
	case SortByAction:
		return rec.Action, true
	case SortByAdminEmail:
		return deref(rec.AdminEmail), true
	case SortByTargetUserEmail:
		return deref(rec.TargetUserEmail), true
	case SortByDescription:
		return deref(rec.Description), true
	case SortByID:
		return rec.ID, true
	}
	return "", false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
