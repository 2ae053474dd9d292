package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"jobboard-backend/internal/activitylog"
	"jobboard-backend/internal/logger"
	"jobboard-backend/internal/metrics"
	"jobboard-backend/internal/middleware"
	"jobboard-backend/internal/models"
	"jobboard-backend/internal/services"
	"jobboard-backend/internal/timeutil"
	"jobboard-backend/pkg/utils"
)

// MaxPageSize bounds the pageSize query parameter
const MaxPageSize = 100

// ActivityLogStore reads and writes activity-log entries.
type ActivityLogStore interface {
	FetchRecords(ctx context.Context, limit int) ([]models.LogRecord, error)
	Create(ctx context.Context, req *models.CreateLogRequest) (*models.LogRecord, error)
}

// LiveFeed receives entries as they are recorded.
type LiveFeed interface {
	Publish(rec models.LogRecord)
}

type ActivityLogHandler struct {
	Store      ActivityLogStore
	Export     *services.ExportService
	Feed       LiveFeed
	Clock      timeutil.Clock
	Logger     *zap.Logger
	FetchLimit int
	PageSize   int
}

func NewActivityLogHandler(store ActivityLogStore, export *services.ExportService, feed LiveFeed) *ActivityLogHandler {
	return &ActivityLogHandler{
		Store:      store,
		Export:     export,
		Feed:       feed,
		Clock:      timeutil.SystemClock,
		Logger:     logger.Named("activity_log"),
		FetchLimit: activitylog.FetchLimit,
		PageSize:   activitylog.DefaultPageSize,
	}
}

type activityLogItem struct {
	Record  models.LogRecord      `json:"record"`
	Display activitylog.ExportRow `json:"display"`
}

type filterResponse struct {
	DatePreset activitylog.DatePreset `json:"datePreset"`
	StartDate  string                 `json:"startDate,omitempty"`
	EndDate    string                 `json:"endDate,omitempty"`
	AdminEmail string                 `json:"adminEmail,omitempty"`
	ActionType string                 `json:"actionType,omitempty"`
}

type activityLogListResponse struct {
	Items []activityLogItem `json:"items"`
	activitylog.Page
	Filter      filterResponse        `json:"filter"`
	Sort        activitylog.SortState `json:"sort"`
	FetchFailed bool                  `json:"fetchFailed,omitempty"`
}

type logTypeResponse struct {
	Type    models.LogType `json:"type"`
	Label   string         `json:"label"`
	LabelEn string         `json:"labelEn"`
}

// List handles GET /api/admin/activity-logs
// Query params: preset, startDate, endDate (YYYY-MM-DD), adminEmail,
// actionType, sort, dir, toggle, page, pageSize
func (h *ActivityLogHandler) List(w http.ResponseWriter, r *http.Request) {
	view, page, err := h.buildView(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	fetchFailed := h.refresh(r.Context(), view) != nil
	view.GoToPage(page)

	current := view.CurrentPage()
	items := make([]activityLogItem, len(current.Items))
	for i, rec := range current.Items {
		items[i] = activityLogItem{Record: rec, Display: activitylog.ToExportRow(rec, activitylog.KoreanLabels)}
	}

	utils.RespondJSON(w, http.StatusOK, activityLogListResponse{
		Items:       items,
		Page:        current,
		Filter:      toFilterResponse(view.Filter()),
		Sort:        view.Sort(),
		FetchFailed: fetchFailed,
	})
}

// ExportCSV handles GET /api/admin/activity-logs/export/csv
// Exports the whole filtered result, not only the current page.
func (h *ActivityLogHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, activitylog.KoreanLabels, h.Export.ExportCSV)
}

// ExportPDF handles GET /api/admin/activity-logs/export/pdf
func (h *ActivityLogHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, activitylog.EnglishLabels, h.Export.ExportPDF)
}

func (h *ActivityLogHandler) export(
	w http.ResponseWriter,
	r *http.Request,
	labels activitylog.Labels,
	render func([]activitylog.ExportRow) (*services.ExportFile, error),
) {
	view, _, err := h.buildView(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()
	if err := h.refresh(ctx, view); err != nil {
		// the failed fetch leaves an empty working set
		h.log(r.Context()).Warn("export skipped, activity logs unavailable", zap.Error(err))
		utils.RespondError(w, http.StatusNotFound, "Activity log entries could not be loaded; nothing to export")
		return
	}

	file, err := render(view.ExportRows(labels))
	if errors.Is(err, services.ErrEmptyExport) {
		utils.RespondError(w, http.StatusNotFound, "No activity log entries match the filter")
		return
	}
	if err != nil {
		h.log(r.Context()).Error("export failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate export")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Write(file.Data)
}

// Create handles POST /api/admin/activity-logs
func (h *ActivityLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// System entries have no acting admin
	if req.AdminEmail == nil && req.Type != models.LogTypeSystem {
		if email, ok := middleware.GetEmailFromContext(r.Context()); ok {
			req.AdminEmail = models.StringPtr(email)
		}
	}

	rec, err := h.Store.Create(r.Context(), &req)
	if err != nil {
		h.log(r.Context()).Error("failed to record activity", zap.String("type", string(req.Type)), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to record activity")
		return
	}

	metrics.ActivityLogRecorded.WithLabelValues(string(rec.Type)).Inc()
	if h.Feed != nil {
		h.Feed.Publish(*rec)
	}
	utils.RespondJSON(w, http.StatusCreated, rec)
}

// Types handles GET /api/admin/activity-logs/types
func (h *ActivityLogHandler) Types(w http.ResponseWriter, r *http.Request) {
	out := make([]logTypeResponse, len(models.LogTypes))
	for i, t := range models.LogTypes {
		out[i] = logTypeResponse{
			Type:    t,
			Label:   activitylog.KoreanLabels.TypeLabel(t),
			LabelEn: activitylog.EnglishLabels.TypeLabel(t),
		}
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

// buildView turns query parameters into view state. The preset is applied
// first, explicit dates second (demoting the preset to custom), and the
// toggle last.
func (h *ActivityLogHandler) buildView(r *http.Request) (*activitylog.View, int, error) {
	q := r.URL.Query()

	pageSize := h.PageSize
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPageSize {
			return nil, 0, fmt.Errorf("pageSize must be between 1 and %d", MaxPageSize)
		}
		pageSize = n
	}

	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid page %q", v)
		}
		page = n
	}

	clock := h.Clock
	if clock == nil {
		clock = timeutil.SystemClock
	}
	view := activitylog.NewView(h.Store,
		activitylog.WithClock(clock),
		activitylog.WithLogger(h.log(r.Context())),
		activitylog.WithFetchLimit(h.FetchLimit),
		activitylog.WithPageSize(pageSize),
	)

	if v := q.Get("preset"); v != "" {
		p, err := activitylog.ParseDatePreset(v)
		if err != nil {
			return nil, 0, err
		}
		view.SetPreset(p)
	}
	if v := q.Get("startDate"); v != "" {
		d, err := activitylog.ParseDate(v)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid startDate %q", v)
		}
		view.SetStartDate(&d)
	}
	if v := q.Get("endDate"); v != "" {
		d, err := activitylog.ParseDate(v)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid endDate %q", v)
		}
		view.SetEndDate(&d)
	}

	view.SetAdminEmail(q.Get("adminEmail"))
	view.SetActionType(q.Get("actionType"))

	if q.Has("sort") || q.Has("dir") {
		key, err := activitylog.ParseSortKey(q.Get("sort"))
		if err != nil {
			return nil, 0, err
		}
		dir, err := activitylog.ParseDirection(q.Get("dir"))
		if err != nil {
			return nil, 0, err
		}
		view.SetSort(activitylog.SortState{Key: key, Direction: dir})
	}
	if v := q.Get("toggle"); v != "" {
		key, err := activitylog.ParseSortKey(v)
		if err != nil {
			return nil, 0, err
		}
		view.ToggleSort(key)
	}

	return view, page, nil
}

func (h *ActivityLogHandler) refresh(ctx context.Context, view *activitylog.View) error {
	err := view.Refresh(ctx)
	if err != nil {
		metrics.ActivityLogFetchFailures.Inc()
	}
	return err
}

func (h *ActivityLogHandler) log(ctx context.Context) *zap.Logger {
	l := h.Logger
	if l == nil {
		l = logger.Named("activity_log")
	}
	if id := logger.GetRequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	return l
}

func toFilterResponse(f activitylog.FilterState) filterResponse {
	out := filterResponse{
		DatePreset: f.DatePreset,
		AdminEmail: f.AdminEmail,
		ActionType: f.ActionType,
	}
	if f.StartDate != nil {
		out.StartDate = timeutil.FormatKST(*f.StartDate, timeutil.DateLayout)
	}
	if f.EndDate != nil {
		out.EndDate = timeutil.FormatKST(*f.EndDate, timeutil.DateLayout)
	}
	return out
}
