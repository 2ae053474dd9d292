package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/activitylog"
	"jobboard-backend/internal/timeutil"
)

type countingWriter struct {
	calls int
	rows  []activitylog.ExportRow
	err   error
}

func (w *countingWriter) Write(rows []activitylog.ExportRow, _ ExportMeta) ([]byte, error) {
	w.calls++
	w.rows = rows
	if w.err != nil {
		return nil, w.err
	}
	return []byte("ok"), nil
}

func fixedClock() timeutil.Clock {
	return timeutil.FixedClock(time.Date(2024, 3, 10, 23, 30, 0, 0, timeutil.KST))
}

func sampleRows(n int) []activitylog.ExportRow {
	rows := make([]activitylog.ExportRow, n)
	for i := range rows {
		rows[i] = activitylog.ExportRow{
			Time:    "2024-03-10 09:00:00",
			Admin:   fmt.Sprintf("admin%d@campus.ac.kr", i),
			Type:    "관리자 작업",
			Action:  "suspend_user",
			Target:  "student@campus.ac.kr",
			Details: "spam, repeated",
		}
	}
	return rows
}

func TestExportRefusesEmptyResult(t *testing.T) {
	csvW, pdfW := &countingWriter{}, &countingWriter{}
	svc := &ExportService{CSV: csvW, PDF: pdfW, Clock: fixedClock()}

	file, err := svc.ExportCSV(nil)
	assert.Nil(t, file)
	assert.True(t, errors.Is(err, ErrEmptyExport))

	file, err = svc.ExportPDF([]activitylog.ExportRow{})
	assert.Nil(t, file)
	assert.True(t, errors.Is(err, ErrEmptyExport))

	assert.Equal(t, 0, csvW.calls)
	assert.Equal(t, 0, pdfW.calls)
}

func TestExportNamesFilesByKSTDate(t *testing.T) {
	svc := &ExportService{CSV: &countingWriter{}, PDF: &countingWriter{}, Clock: fixedClock()}

	file, err := svc.ExportCSV(sampleRows(1))
	require.NoError(t, err)
	assert.Equal(t, "activity_log_2024-03-10.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	file, err = svc.ExportPDF(sampleRows(1))
	require.NoError(t, err)
	assert.Equal(t, "activity_log_2024-03-10.pdf", file.Name)
}

func TestExportPDFTruncatesButCSVDoesNot(t *testing.T) {
	csvW, pdfW := &countingWriter{}, &countingWriter{}
	svc := &ExportService{CSV: csvW, PDF: pdfW, Clock: fixedClock()}

	rows := sampleRows(1)
	rows[0].Action = strings.Repeat("a", 40)

	_, err := svc.ExportCSV(rows)
	require.NoError(t, err)
	_, err = svc.ExportPDF(rows)
	require.NoError(t, err)

	assert.Len(t, csvW.rows[0].Action, 40)
	assert.Len(t, pdfW.rows[0].Action, activitylog.PDFActionChars)
	assert.Len(t, rows[0].Action, 40, "caller rows are not modified")
}

func TestExportWrapsWriterError(t *testing.T) {
	svc := &ExportService{CSV: &countingWriter{err: errors.New("disk full")}, Clock: fixedClock()}
	_, err := svc.ExportCSV(sampleRows(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCSVWriterBOMAndQuoting(t *testing.T) {
	w := &CSVWriter{Header: activitylog.KoreanLabels.Headers}
	rows := sampleRows(2)
	rows[1].Details = "line one\nline two"

	data, err := w.Write(rows, ExportMeta{Total: 2})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"시간", "관리자", "유형", "작업", "대상", "상세"}, records[0])
	assert.Equal(t, "spam, repeated", records[1][5])
	assert.Equal(t, "line one\nline two", records[2][5])
}

func TestPDFWriterBreaksPages(t *testing.T) {
	w := &PDFWriter{Header: activitylog.EnglishLabels.Headers}

	small, err := w.Write(sampleRows(3), ExportMeta{GeneratedAt: fixedClock().Now(), Total: 3})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(small, []byte("%PDF")))
	assert.Equal(t, 1, bytes.Count(small, []byte("/Type /Page\n")))

	large, err := w.Write(sampleRows(200), ExportMeta{GeneratedAt: fixedClock().Now(), Total: 200})
	require.NoError(t, err)
	assert.Greater(t, bytes.Count(large, []byte("/Type /Page\n")), 1)
}

func TestPDFWriterLayout(t *testing.T) {
	w := &PDFWriter{Header: activitylog.EnglishLabels.Headers, uncompressed: true}
	meta := ExportMeta{GeneratedAt: fixedClock().Now(), Total: 12}

	data, err := w.Write(sampleRows(12), meta)
	require.NoError(t, err)

	assert.Contains(t, string(data), "(Activity Log Report) Tj")
	assert.Contains(t, string(data), "(Generated: 2024-03-10 23:30:00) Tj")
	assert.Contains(t, string(data), "(Total records: 12) Tj")
	assert.Equal(t, 1, bytes.Count(data, []byte("/Type /Page\n")))
	assert.Equal(t, 1, bytes.Count(data, []byte("(Time) Tj")))
	assert.Equal(t, 2, bytes.Count(data, []byte(" l S")), "one rule after every fifth row")
}

func TestPDFWriterRepeatsColumnHeaderOnNewPage(t *testing.T) {
	w := &PDFWriter{Header: activitylog.EnglishLabels.Headers, uncompressed: true}

	// 22 rows fit under the header block on the first page
	data, err := w.Write(sampleRows(30), ExportMeta{GeneratedAt: fixedClock().Now(), Total: 30})
	require.NoError(t, err)

	assert.Equal(t, 2, bytes.Count(data, []byte("/Type /Page\n")))
	assert.Equal(t, 2, bytes.Count(data, []byte("(Time) Tj")))
	assert.Equal(t, 2, bytes.Count(data, []byte("(Details) Tj")))
	assert.Equal(t, 6, bytes.Count(data, []byte(" l S")))
	assert.Equal(t, 1, bytes.Count(data, []byte("(Total records: 30) Tj")))
}
