package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/registry"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/examhall/examhall-backend/internal/service"
	ws "github.com/examhall/examhall-backend/internal/websocket"
)

func newStreamServer(t *testing.T, interval time.Duration) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	monitorService := service.NewMonitorService(registry.New(), repository.NewExamRepository(nil))
	h := NewMonitorHandler(monitorService, zerolog.Nop(), nil)
	h.interval = interval

	router := gin.New()
	router.GET("/stream", func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &service.Claims{
			TokenType: service.TokenTypeTeacher,
			UserID:    1,
		})
		h.SessionStream(c)
	})
	return httptest.NewServer(router)
}

// A client hammering the stream with pings while snapshots tick out must
// see interleaved pong and sessions events on an intact connection. All
// writes go through the single snapshot loop, so the ping traffic cannot
// race a snapshot push on the connection.
func TestSessionStreamPingsDuringSnapshots(t *testing.T) {
	srv := newStreamServer(t, time.Millisecond)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	go func() {
		ping, _ := json.Marshal(ws.RequestEnvelope{Action: ws.ActionPing})
		for {
			select {
			case <-stop:
				return
			default:
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return
			}
		}
	}()

	var pongs, snapshots int
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) && (pongs == 0 || snapshots < 5) {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		var msg struct {
			Event ws.Event `json:"event"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("connection broke mid-stream: %v", err)
		}
		switch msg.Event {
		case ws.EventPong:
			pongs++
		case ws.EventSessions:
			snapshots++
		default:
			t.Fatalf("unexpected event %q", msg.Event)
		}
	}
	close(stop)

	if pongs == 0 {
		t.Error("expected at least one pong")
	}
	if snapshots < 5 {
		t.Errorf("expected at least 5 snapshots, got %d", snapshots)
	}
}

func TestSessionStreamClosesOnClientDisconnect(t *testing.T) {
	srv := newStreamServer(t, 10*time.Millisecond)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	var msg struct {
		Event ws.Event `json:"event"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read first snapshot: %v", err)
	}
	if msg.Event != ws.EventSessions {
		t.Fatalf("expected sessions event, got %q", msg.Event)
	}
	conn.Close()
}
