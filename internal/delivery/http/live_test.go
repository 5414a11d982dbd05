package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"social-analytics-backend/internal/entity"
)

func newHubServer(t *testing.T) (*Live, *httptest.Server) {
	t.Helper()
	hub := NewLive(nil)
	server := echo.New()
	hub.Configure(server.Group("/ws"))
	return hub, httptest.NewServer(server)
}

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/analytics"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func TestHubBroadcastsOverviewFrames(t *testing.T) {
	hub, server := newHubServer(t)
	defer server.Close()

	conn := dialHub(t, server)
	defer conn.Close()

	// Client-side traffic is liveness only; neither frame may close the
	// connection or come back to us.
	if err := conn.WriteJSON(entity.Frame{Type: entity.FramePing}); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"debug"}`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Registration happens in the handler goroutine; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.Lock()
		n := len(hub.clients)
		hub.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.broadcast(entity.Frame{
		Type:      entity.FrameSnapshot,
		Platform:  entity.PlatformReddit,
		AccountID: "acc-1",
		Overview: &entity.Overview{
			Totals:     entity.Totals{Followers: 77},
			Configured: true,
		},
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var frame entity.Frame
	if err := json.Unmarshal(message, &frame); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	if frame.Type != entity.FrameSnapshot || frame.Overview == nil || frame.Overview.Totals.Followers != 77 {
		t.Errorf("unexpected frame: %+v", frame)
	}
	if frame.Platform != entity.PlatformReddit || frame.AccountID != "acc-1" {
		t.Errorf("frame must name its platform and account, got %q/%q", frame.Platform, frame.AccountID)
	}
}

func TestHubDropsDeadClients(t *testing.T) {
	hub, server := newHubServer(t)
	defer server.Close()

	conn := dialHub(t, server)
	_ = conn.Close()

	// Two broadcasts: the first may still hit OS buffers, the second must
	// detect the dead peer and evict it.
	frame := entity.Frame{Type: entity.FrameSnapshot, Overview: &entity.Overview{}}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.broadcast(frame)
		hub.mu.Lock()
		n := len(hub.clients)
		hub.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("dead client was never evicted")
}
