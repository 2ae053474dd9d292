package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobboard-backend/internal/handlers"
	"jobboard-backend/internal/middleware"
)

func NewRouter(
	activityLogHandler *handlers.ActivityLogHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Protected API routes - Activity Logs (admin only)
	activityLogsAPI := r.PathPrefix("/api/admin/activity-logs").Subrouter()
	activityLogsAPI.Use(authMiddleware.RequireAdmin)
	activityLogsAPI.HandleFunc("", activityLogHandler.List).Methods(http.MethodGet)
	activityLogsAPI.HandleFunc("", activityLogHandler.Create).Methods(http.MethodPost)
	activityLogsAPI.HandleFunc("/types", activityLogHandler.Types).Methods(http.MethodGet)
	activityLogsAPI.HandleFunc("/export/csv", activityLogHandler.ExportCSV).Methods(http.MethodGet)
	activityLogsAPI.HandleFunc("/export/pdf", activityLogHandler.ExportPDF).Methods(http.MethodGet)

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods(http.MethodGet)

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
