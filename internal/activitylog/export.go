package activitylog

import (
	"encoding/json"

	"jobboard-backend/internal/models"
	"jobboard-backend/internal/timeutil"
)

// ExportRow is one log entry flattened for the CSV and PDF writers
type ExportRow struct {
	Time    string `json:"time"`
	Admin   string `json:"admin"`
	Type    string `json:"type"`
	Action  string `json:"action"`
	Target  string `json:"target"`
	Details string `json:"details"`
}

// Columns returns the row in table order
func (r ExportRow) Columns() []string {
	return []string{r.Time, r.Admin, r.Type, r.Action, r.Target, r.Details}
}

// Labels holds the display text for sentinels, type names and headers
type Labels struct {
	System        string
	NoDescription string
	NoTime        string
	Types         map[models.LogType]string
	Headers       []string
}

// KoreanLabels are used on the dashboard and in CSV files
var KoreanLabels = Labels{
	System:        "시스템",
	NoDescription: "설명 없음",
	NoTime:        "시간 정보 없음",
	Types: map[models.LogType]string{
		models.LogTypeContentChange: "콘텐츠 변경",
		models.LogTypeUserAction:    "사용자 작업",
		models.LogTypeSystem:        "시스템",
		models.LogTypeLogin:         "로그인",
		models.LogTypeAdmin:         "관리자 작업",
	},
	Headers: []string{"시간", "관리자", "유형", "작업", "대상", "상세"},
}

// EnglishLabels are used in PDF files; the PDF core fonts cannot draw Hangul
var EnglishLabels = Labels{
	System:        "System",
	NoDescription: "No description",
	NoTime:        "No time info",
	Types: map[models.LogType]string{
		models.LogTypeContentChange: "Content Change",
		models.LogTypeUserAction:    "User Action",
		models.LogTypeSystem:        "System",
		models.LogTypeLogin:         "Login",
		models.LogTypeAdmin:         "Admin",
	},
	Headers: []string{"Time", "Admin", "Type", "Action", "Target", "Details"},
}

// TypeLabel maps a category to its label; unknown categories pass through
func (l Labels) TypeLabel(t models.LogType) string {
	if label, ok := l.Types[t]; ok {
		return label
	}
	return string(t)
}

// FormatTime renders a timestamp in KST with seconds precision
func (l Labels) FormatTime(ts models.Timestamp) string {
	t, ok := ts.Time()
	if !ok {
		return l.NoTime
	}
	return timeutil.FormatKST(t, timeutil.DateTimeLayout)
}

// ToExportRow flattens a single record
func ToExportRow(rec models.LogRecord, l Labels) ExportRow {
	row := ExportRow{
		Time:   l.FormatTime(rec.Timestamp),
		Admin:  l.System,
		Type:   l.TypeLabel(rec.Type),
		Action: l.NoDescription,
	}
	if rec.AdminEmail != nil && *rec.AdminEmail != "" {
		row.Admin = *rec.AdminEmail
	}

	switch {
	case rec.Action != "":
		row.Action = rec.Action
	case rec.Description != nil && *rec.Description != "":
		row.Action = *rec.Description
	}

	switch {
	case rec.TargetUserEmail != nil && *rec.TargetUserEmail != "":
		row.Target = *rec.TargetUserEmail
	case rec.ContentID != nil:
		row.Target = *rec.ContentID
	}

	switch {
	case rec.Reason != nil && *rec.Reason != "":
		row.Details = *rec.Reason
	case rec.Changes != nil:
		if b, err := json.Marshal(rec.Changes); err == nil {
			row.Details = string(b)
		}
	}
	return row
}

// ToExportRows flattens records in order
func ToExportRows(records []models.LogRecord, l Labels) []ExportRow {
	rows := make([]ExportRow, len(records))
	for i, rec := range records {
		rows[i] = ToExportRow(rec, l)
	}
	return rows
}

// Character budgets per PDF column. The PDF table has fixed-width cells
// with no wrapping.
const (
	PDFTimeChars    = 16
	PDFAdminChars   = 20
	PDFTypeChars    = 15
	PDFActionChars  = 25
	PDFTargetChars  = 20
	PDFDetailsChars = 25
)

// TruncateForPDF cuts every field to its column budget
func (r ExportRow) TruncateForPDF() ExportRow {
	return ExportRow{
		Time:    Truncate(r.Time, PDFTimeChars),
		Admin:   Truncate(r.Admin, PDFAdminChars),
		Type:    Truncate(r.Type, PDFTypeChars),
		Action:  Truncate(r.Action, PDFActionChars),
		Target:  Truncate(r.Target, PDFTargetChars),
		Details: Truncate(r.Details, PDFDetailsChars),
	}
}

// Truncate keeps at most n characters of s
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
