package repo

import (
	"context"

	"social-analytics-backend/internal/entity"
)

// OverviewEventRepository is the bus carrying overview updates from the stats
// worker to the gateway's websocket hub.
type OverviewEventRepository interface {
	PublishOverviewEvent(ctx context.Context, event *entity.OverviewEvent) error
	// SubscribeOverviewEvents returns a channel of new events. The channel is
	// closed when ctx is cancelled.
	SubscribeOverviewEvents(ctx context.Context) (<-chan *entity.OverviewEvent, error)
}
