package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/repo"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Live is the websocket hub behind /ws/analytics. It fans overview events
// from the event bus out to every connected dashboard client as
// {"type":"snapshot","overview":{...}} frames.
type Live struct {
	events repo.OverviewEventRepository

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewLive(events repo.OverviewEventRepository) *Live {
	return &Live{
		events:  events,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (l *Live) Configure(server *echo.Group) {
	server.GET("/analytics", l.HandleConnections)
}

// Run consumes the overview event stream and broadcasts until ctx is
// cancelled.
func (l *Live) Run(ctx context.Context) error {
	events, err := l.events.SubscribeOverviewEvents(ctx)
	if err != nil {
		return err
	}
	for event := range events {
		l.broadcast(entity.Frame{
			Type:      entity.FrameSnapshot,
			Platform:  event.Platform,
			AccountID: event.AccountID,
			Overview:  &event.Overview,
		})
	}
	return nil
}

func (l *Live) HandleConnections(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.clients[ws] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.clients, ws)
		l.mu.Unlock()
		_ = ws.Close()
	}()

	// Inbound traffic is liveness pings only; everything unknown is read and
	// dropped. The read loop also notices disconnects.
	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			return nil
		}
		var frame entity.Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			continue
		}
		if frame.Type != entity.FramePing {
			log.Debugf("ignoring unknown ws frame type %q", frame.Type)
		}
	}
}

func (l *Live) broadcast(frame entity.Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ws := range l.clients {
		if err := ws.WriteJSON(frame); err != nil {
			log.Errorf("failed to push frame to ws client: %v", err)
			_ = ws.Close()
			delete(l.clients, ws)
		}
	}
}
