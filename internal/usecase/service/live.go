package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/labstack/gommon/log"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/usecase"
)

const (
	defaultPollInterval   = 30 * time.Second
	reconnectInitialDelay = time.Second
	reconnectMaxDelay     = 30 * time.Second
	reconnectMaxElapsed   = 10 * time.Minute
)

// RefetchFunc performs a full snapshot fetch for the current selection. The
// live channel calls it as a poll fallback while the socket is down, which
// keeps the snapshot eventually consistent even under flaky push delivery.
type RefetchFunc func(ctx context.Context) (*entity.AnalyticsSnapshot, error)

// Live is the client side of the analytics push channel. It owns one
// snapshot value: full fetches replace it wholesale via Replace, inbound
// overview patches merge into it. The merge never touches posts or
// demographics. No ordering is assumed between patches; the last one wins.
type Live struct {
	url          string
	dialer       *websocket.Dialer
	refetch      RefetchFunc
	pollInterval time.Duration

	mu       sync.RWMutex
	state    entity.ChannelState
	snapshot *entity.AnalyticsSnapshot
	lastPoll time.Time
}

func NewLive(url string, refetch RefetchFunc) usecase.LiveChannel {
	return &Live{
		url:          url,
		dialer:       websocket.DefaultDialer,
		refetch:      refetch,
		pollInterval: defaultPollInterval,
		state:        entity.StateClosed,
		// The fallback waits a full interval after start; a flap right after
		// startup must not trigger an immediate refetch.
		lastPoll: time.Now(),
	}
}

// Run drives CONNECTING -> OPEN -> CLOSED -> retry until ctx is cancelled.
// Reconnects back off exponentially up to a ceiling; once the policy gives up
// for an outage the channel parks in CLOSED until Run is invoked again.
func (l *Live) Run(ctx context.Context) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = reconnectInitialDelay
	policy.MaxInterval = reconnectMaxDelay
	policy.MaxElapsedTime = reconnectMaxElapsed

	for {
		if ctx.Err() != nil {
			l.setState(entity.StateClosed)
			return
		}

		l.setState(entity.StateConnecting)
		conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
		if err != nil {
			l.setState(entity.StateClosed)
			l.maybePoll(ctx)
			wait := policy.NextBackOff()
			if wait == backoff.Stop {
				log.Warnf("live channel gave up reconnecting to %s", l.url)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}

		policy.Reset()
		l.setState(entity.StateOpen)
		// Liveness ping announces the client; the server discards it.
		if err := conn.WriteJSON(entity.Frame{Type: entity.FramePing}); err != nil {
			log.Errorf("live channel ping failed: %v", err)
		}

		l.readLoop(ctx, conn)
		_ = conn.Close()
		l.setState(entity.StateClosed)
		l.maybePoll(ctx)
	}
}

func (l *Live) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame entity.Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Warnf("live channel dropped malformed frame: %v", err)
			continue
		}
		switch frame.Type {
		case entity.FrameSnapshot:
			if frame.Overview != nil {
				l.applyPatch(frame)
			}
		default:
			// Unknown frame types are ignored, never fatal.
		}
	}
}

func (l *Live) applyPatch(frame entity.Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snapshot == nil {
		// Nothing to merge into until the first full fetch.
		return
	}
	// A tagged frame only merges into the matching selection. Untagged frames
	// are trusted; the worker broadcasts every platform, so without the check
	// a reddit snapshot would pick up facebook totals.
	if frame.Platform != "" && frame.Platform != l.snapshot.Platform {
		return
	}
	if frame.AccountID != "" && l.snapshot.AccountID != "" && frame.AccountID != l.snapshot.AccountID {
		return
	}
	l.snapshot = MergeOverview(l.snapshot, *frame.Overview)
}

// maybePoll triggers one full re-fetch per poll interval while the channel
// is down.
func (l *Live) maybePoll(ctx context.Context) {
	if l.refetch == nil || ctx.Err() != nil {
		return
	}
	l.mu.Lock()
	due := time.Since(l.lastPoll) >= l.pollInterval
	if due {
		l.lastPoll = time.Now()
	}
	l.mu.Unlock()
	if !due {
		return
	}

	snapshot, err := l.refetch(ctx)
	if err != nil {
		log.Errorf("live channel poll fallback failed: %v", err)
		return
	}
	l.Replace(snapshot)
}

func (l *Live) State() entity.ChannelState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

func (l *Live) Current() *entity.AnalyticsSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}

func (l *Live) Replace(snapshot *entity.AnalyticsSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshot = snapshot
}

func (l *Live) setState(state entity.ChannelState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = state
}
