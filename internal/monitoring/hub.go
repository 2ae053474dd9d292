package monitoring

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"jobboard-backend/internal/models"
)

// Event is one message pushed to dashboard websocket clients.
type Event struct {
	Kind      string            `json:"kind"`
	Record    *models.LogRecord `json:"record,omitempty"`
	Alert     *Alert            `json:"alert,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

const (
	EventActivityLog = "activity_log"
	EventAlert       = "alert"
)

// Hub fans events out to connected websocket clients.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Event
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewHub accepts websocket upgrades only from allowedOrigins ("*" allows
// any). Requests without an Origin header are not from a browser and pass.
func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 64),
		upgrader:  websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
		logger:    logger,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// Run delivers queued events until ctx is done, then closes all clients.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.clientsMux.Lock()
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			h.clientsMux.Unlock()
			return
		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev Event) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client := range h.clients {
		client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := client.WriteJSON(ev); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

// Publish queues a newly recorded activity entry. It never blocks; when
// the queue is full the event is dropped.
func (h *Hub) Publish(rec models.LogRecord) {
	h.enqueue(Event{Kind: EventActivityLog, Record: &rec, Timestamp: time.Now()})
}

func (h *Hub) publishAlert(a Alert) {
	h.enqueue(Event{Kind: EventAlert, Alert: &a, Timestamp: a.Timestamp})
}

func (h *Hub) enqueue(ev Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("live feed queue full, dropping event", zap.String("kind", ev.Kind))
	}
}

// ClientCount reports the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the connection and keeps it registered until the client
// goes away. Incoming messages are ignored. Callers gate it behind the
// admin check; see MonitoringServer.Router.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			return
		}
	}
}
