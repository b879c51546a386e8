package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/service"
	ws "github.com/examhall/examhall-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// snapshotInterval is how often the session snapshot is pushed to
// connected monitors.
const snapshotInterval = 2 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live session snapshots to teacher dashboards.
type MonitorHandler struct {
	monitorService *service.MonitorService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
	interval       time.Duration
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(monitorService *service.MonitorService, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		monitorService: monitorService,
		log:            log.With().Str("component", "monitor_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
		interval:       snapshotInterval,
	}
}

// SessionStream godoc
// WS /ws/v1/teacher/sessions/stream
// Upgrades to WebSocket and pushes the in-flight session snapshot
// periodically until the client disconnects.
func (h *MonitorHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("teacher_id", claims.UserID).Logger()
	wsLog.Info().Msg("Monitor connected")

	// The read pump only consumes pings and detects disconnects. All
	// writes happen in the loop below; the pump forwards ping requests
	// over a channel so the connection never has two concurrent writers.
	// Closing done unblocks the write loop.
	done := make(chan struct{})
	pings := make(chan struct{}, 1)
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	if err := h.pushSnapshot(c, conn); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.pushSnapshot(c, conn); err != nil {
				return
			}
		}
	}
}

func (h *MonitorHandler) pushSnapshot(c *gin.Context, conn *websocket.Conn) error {
	sessions, err := h.monitorService.ActiveSessions(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Snapshot failed")
		return ws.WriteError(conn, "snapshot failed")
	}
	return ws.WriteTyped(conn, ws.SessionsResponse{
		Event:    ws.EventSessions,
		Sessions: sessions,
	})
}
