package entity

import "time"

// Totals carries the headline numbers for one platform+account.
type Totals struct {
	Followers      int     `json:"followers" msgpack:"followers"`
	Impressions    int     `json:"impressions" msgpack:"impressions"`
	Reach          int     `json:"reach" msgpack:"reach"`
	EngagementRate float64 `json:"engagement_rate" msgpack:"engagement_rate"`
	BestPostID     string  `json:"best_post_id" msgpack:"best_post_id"`
}

// Overview is the subset of a snapshot delivered over the live channel.
type Overview struct {
	Totals           Totals `json:"totals" msgpack:"totals"`
	MetricsAvailable bool   `json:"metrics_available" msgpack:"metrics_available"`
	Configured       bool   `json:"configured" msgpack:"configured"`
}

// Demographics is the platform-specific audience/content breakdown. Each
// platform fills the buckets it can actually produce and leaves the rest
// empty; an empty map with Configured=true on the snapshot means "platform
// has no such data", not "fetch failed".
type Demographics struct {
	ByCountry        map[string]int `json:"by_country"`
	ByAgeGender      map[string]int `json:"by_age_gender"`
	BySubreddit      map[string]int `json:"by_subreddit"`
	ByMediaType      map[string]int `json:"by_media_type"`
	ByEngagementTier map[string]int `json:"by_engagement_tier"`
}

// AccountSummary is the canonical account-level result of a platform fetch.
type AccountSummary struct {
	Followers  int            `json:"followers"`
	Configured bool           `json:"configured"`
	Raw        map[string]any `json:"raw,omitempty"`
}

// Status exposes the raw account blob plus any platform summary object for
// read-only display.
type Status struct {
	Account map[string]any `json:"account,omitempty"`
	Summary map[string]any `json:"summary,omitempty"`
}

// AnalyticsSnapshot is one complete analytics result for a platform+account
// at a point in time. It is replaced wholesale on each full fetch and
// overview-merged on each live push; no other mutation path exists.
type AnalyticsSnapshot struct {
	Platform     Platform     `json:"platform"`
	AccountID    string       `json:"account_id,omitempty"`
	Overview     Overview     `json:"overview"`
	Followers    int          `json:"followers"`
	Demographics Demographics `json:"demographics"`
	Posts        []Post       `json:"posts"`
	BestPost     RankedPost   `json:"best_post"`
	WorstPost    RankedPost   `json:"worst_post"`
	Status       Status       `json:"status"`
	// Warning carries the non-blocking partial-failure notice, if any.
	Warning   string    `json:"warning,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewEmptySnapshot returns the canonical empty snapshot for a platform:
// unconfigured, no metrics, every collection initialized.
func NewEmptySnapshot(platform Platform) *AnalyticsSnapshot {
	return &AnalyticsSnapshot{
		Platform: platform,
		Demographics: Demographics{
			ByCountry:        map[string]int{},
			ByAgeGender:      map[string]int{},
			BySubreddit:      map[string]int{},
			ByMediaType:      map[string]int{},
			ByEngagementTier: map[string]int{},
		},
		Posts: []Post{},
	}
}
