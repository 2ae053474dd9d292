package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"jobboard-backend/internal/activitylog"
	"jobboard-backend/internal/metrics"
	"jobboard-backend/internal/timeutil"
)

// ErrEmptyExport is returned when there is nothing to export. No file is
// produced and no writer is invoked.
var ErrEmptyExport = errors.New("no activity log entries to export")

// ExportMeta is the header information written into an export
type ExportMeta struct {
	GeneratedAt time.Time
	Total       int
}

// RowWriter renders flattened rows into a file body
type RowWriter interface {
	Write(rows []activitylog.ExportRow, meta ExportMeta) ([]byte, error)
}

// ExportFile is a finished download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportService guards and names CSV/PDF exports of the activity log
type ExportService struct {
	CSV   RowWriter
	PDF   RowWriter
	Clock timeutil.Clock
}

// NewExportService wires the default CSV and PDF writers
func NewExportService(clock timeutil.Clock) *ExportService {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	return &ExportService{
		CSV:   &CSVWriter{Header: activitylog.KoreanLabels.Headers},
		PDF:   &PDFWriter{Header: activitylog.EnglishLabels.Headers},
		Clock: clock,
	}
}

// ExportCSV renders rows as a CSV download
func (s *ExportService) ExportCSV(rows []activitylog.ExportRow) (*ExportFile, error) {
	return s.export("csv", "text/csv; charset=utf-8", s.CSV, rows)
}

// ExportPDF renders rows as a PDF download. Rows are truncated to the PDF
// column budgets here; callers pass the same rows they would give ExportCSV.
func (s *ExportService) ExportPDF(rows []activitylog.ExportRow) (*ExportFile, error) {
	truncated := make([]activitylog.ExportRow, len(rows))
	for i, r := range rows {
		truncated[i] = r.TruncateForPDF()
	}
	return s.export("pdf", "application/pdf", s.PDF, truncated)
}

func (s *ExportService) export(format, contentType string, w RowWriter, rows []activitylog.ExportRow) (*ExportFile, error) {
	if len(rows) == 0 {
		metrics.ActivityLogExports.WithLabelValues(format, "empty").Inc()
		return nil, ErrEmptyExport
	}

	now := s.Clock.Now()
	data, err := w.Write(rows, ExportMeta{GeneratedAt: now, Total: len(rows)})
	if err != nil {
		metrics.ActivityLogExports.WithLabelValues(format, "error").Inc()
		return nil, fmt.Errorf("failed to write %s export: %w", format, err)
	}

	metrics.ActivityLogExports.WithLabelValues(format, "ok").Inc()
	return &ExportFile{
		Name:        ExportFilename(format, now),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// ExportFilename is activity_log_<YYYY-MM-DD>.<ext> using the KST date
func ExportFilename(ext string, at time.Time) string {
	return fmt.Sprintf("activity_log_%s.%s", timeutil.FormatKST(at, timeutil.DateLayout), ext)
}

// utf8BOM lets spreadsheet tools detect UTF-8 and render Hangul correctly
const utf8BOM = "\ufeff"

// CSVWriter writes a BOM, a header row and one line per row
type CSVWriter struct {
	Header []string
}

func (c *CSVWriter) Write(rows []activitylog.ExportRow, _ ExportMeta) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(c.Header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r.Columns()); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF table layout, landscape A4 in millimetres
const (
	pdfMargin     = 10.0
	pdfRowHeight  = 7.0
	pdfRuleEvery  = 5
	pdfTableWidth = 277.0
)

var pdfColumnWidths = []float64{40, 50, 35, 55, 50, 47}

// PDFWriter draws a landscape table: header block, then the six columns,
// with a rule after every fifth row and a new page (header repeated) when
// the next row would not fit.
type PDFWriter struct {
	Header []string

	// uncompressed leaves page streams readable for tests
	uncompressed bool
}

func (p *PDFWriter) Write(rows []activitylog.ExportRow, meta ExportMeta) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	if p.uncompressed {
		pdf.SetCompression(false)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Header block
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pdfTableWidth, 10, "Activity Log Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pdfTableWidth, 6, fmt.Sprintf("Generated: %s", timeutil.FormatKST(meta.GeneratedAt, timeutil.DateTimeLayout)), "", 1, "C", false, 0, "")
	pdf.CellFormat(pdfTableWidth, 6, fmt.Sprintf("Total records: %d", meta.Total), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	p.drawColumnHeader(pdf)

	_, pageHeight := pdf.GetPageSize()
	pdf.SetFont("Arial", "", 9)
	for i, r := range rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			p.drawColumnHeader(pdf)
			pdf.SetFont("Arial", "", 9)
		}

		for c, value := range r.Columns() {
			pdf.CellFormat(pdfColumnWidths[c], pdfRowHeight, tr(value), "", 0, "L", false, 0, "")
		}
		pdf.Ln(pdfRowHeight)

		if (i+1)%pdfRuleEvery == 0 {
			y := pdf.GetY()
			pdf.Line(pdfMargin, y, pdfMargin+pdfTableWidth, y)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *PDFWriter) drawColumnHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for c, title := range p.Header {
		pdf.CellFormat(pdfColumnWidths[c], pdfRowHeight, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(pdfRowHeight)
}
