package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"jobboard-backend/internal/health"
	"jobboard-backend/pkg/utils"
)

type Alert struct {
	ID        int       `json:"id"`
	Severity  string    `json:"severity"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

type DashboardStats struct {
	DatabaseStatus string    `json:"database_status"`
	ResponseTime   int64     `json:"response_time_ms"`
	ActiveAlerts   int       `json:"active_alerts"`
	LiveClients    int       `json:"live_clients"`
	Uptime         string    `json:"uptime"`
	Host           HostStats `json:"host"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
}

// MonitoringServer serves host/database stats and the live activity feed
// on its own port.
type MonitoringServer struct {
	db        health.Pinger
	port      int
	hub       *Hub
	logger    *zap.Logger
	startedAt time.Time
	alerts    []Alert
	alertsMux sync.RWMutex
	wsGuard   func(http.Handler) http.Handler

	// HostStats is swapped out in tests
	HostStats func() HostStats
}

// NewMonitoringServer serves host stats and alerts. The live feed at /ws
// carries activity records, so it is mounted only behind wsGuard; a nil
// guard leaves /ws unregistered.
func NewMonitoringServer(db health.Pinger, port int, hub *Hub, wsGuard func(http.Handler) http.Handler, logger *zap.Logger) *MonitoringServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitoringServer{
		db:        db,
		port:      port,
		hub:       hub,
		logger:    logger,
		startedAt: time.Now(),
		alerts:    make([]Alert, 0),
		wsGuard:   wsGuard,
		HostStats: collectHostStats,
	}
}

func (ms *MonitoringServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/stats", ms.getStats).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts", ms.getAlerts).Methods(http.MethodGet)
	if ms.wsGuard != nil {
		r.Handle("/ws", ms.wsGuard(http.HandlerFunc(ms.hub.ServeWS)))
	}
	return r
}

// Start runs the hub, the health watcher and the HTTP listener until ctx
// is cancelled.
func (ms *MonitoringServer) Start(ctx context.Context) error {
	go ms.hub.Run(ctx)
	go ms.monitorHealth(ctx, 30*time.Second)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", ms.port),
		Handler:           ms.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	ms.logger.Info("monitoring server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitoring server: %w", err)
	}
	return nil
}

func (ms *MonitoringServer) getStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, ms.collectStats(r.Context()))
}

func (ms *MonitoringServer) getAlerts(w http.ResponseWriter, r *http.Request) {
	ms.alertsMux.RLock()
	defer ms.alertsMux.RUnlock()
	utils.RespondJSON(w, http.StatusOK, ms.alerts)
}

func (ms *MonitoringServer) collectStats(ctx context.Context) DashboardStats {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := ms.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	dbStatus := "healthy"
	if err != nil {
		dbStatus = "unhealthy"
	}

	ms.alertsMux.RLock()
	active := 0
	for _, a := range ms.alerts {
		if !a.Resolved {
			active++
		}
	}
	ms.alertsMux.RUnlock()

	return DashboardStats{
		DatabaseStatus: dbStatus,
		ResponseTime:   responseTime,
		ActiveAlerts:   active,
		LiveClients:    ms.hub.ClientCount(),
		Uptime:         formatUptime(int(time.Since(ms.startedAt).Seconds())),
		Host:           ms.HostStats(),
	}
}

func collectHostStats() HostStats {
	var hs HostStats
	if cpuPercents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(cpuPercents) > 0 {
		hs.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		hs.MemoryPercent = memStats.UsedPercent
		hs.MemoryUsed = formatBytes(memStats.Used)
		hs.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		hs.DiskPercent = diskStats.UsedPercent
		hs.DiskUsed = formatBytes(diskStats.Used)
		hs.DiskTotal = formatBytes(diskStats.Total)
	}
	return hs
}

// monitorHealth raises an alert when the database stops answering and
// resolves it once it is back.
func (ms *MonitoringServer) monitorHealth(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms.checkDatabase(ctx)
		}
	}
}

func (ms *MonitoringServer) checkDatabase(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	err := ms.db.Ping(pingCtx)
	cancel()

	ms.alertsMux.Lock()
	defer ms.alertsMux.Unlock()

	open := -1
	for i := range ms.alerts {
		if ms.alerts[i].Type == "database_down" && !ms.alerts[i].Resolved {
			open = i
		}
	}

	switch {
	case err != nil && open < 0:
		alert := Alert{
			ID:        len(ms.alerts) + 1,
			Severity:  "critical",
			Type:      "database_down",
			Message:   "Database is unreachable",
			Timestamp: time.Now(),
		}
		ms.alerts = append(ms.alerts, alert)
		ms.logger.Error("database unreachable", zap.Error(err))
		ms.hub.publishAlert(alert)
	case err == nil && open >= 0:
		ms.alerts[open].Resolved = true
		ms.logger.Info("database reachable again")
		ms.hub.publishAlert(ms.alerts[open])
	}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}

func formatUptime(seconds int) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
