package entity

import "time"

// Live channel frame types. Unknown inbound types are ignored, never fatal.
const (
	FrameSnapshot = "snapshot"
	FramePing     = "ping"
)

// Frame is one JSON message on the /ws/analytics channel. Snapshot frames
// name the platform and account the overview belongs to so a client never
// merges another selection's numbers into its snapshot.
type Frame struct {
	Type      string    `json:"type"`
	Platform  Platform  `json:"platform,omitempty"`
	AccountID string    `json:"account_id,omitempty"`
	Overview  *Overview `json:"overview,omitempty"`
}

// OverviewEvent is the overview-update message the stats worker publishes to
// the event bus and the gateway fans out to websocket clients.
type OverviewEvent struct {
	EventID    string    `json:"-" msgpack:"event_id"`
	Platform   Platform  `json:"platform" msgpack:"platform"`
	AccountID  string    `json:"account_id" msgpack:"account_id"`
	Overview   Overview  `json:"overview" msgpack:"overview"`
	OccurredAt time.Time `json:"-" msgpack:"occurred_at"`
}

// ChannelState is the observable state of the live-update channel.
type ChannelState string

const (
	StateConnecting ChannelState = "connecting"
	StateOpen       ChannelState = "open"
	StateClosed     ChannelState = "closed"
)
