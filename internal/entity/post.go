package entity

import "time"

// Post is the canonical platform-agnostic representation of one social media
// post (tweet, submission, media item). Adapters must fill every numeric
// field, defaulting to zero, so ranking never has to special-case missing
// data.
type Post struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at"`

	// Reach and Impressions unify platform-specific proxy metrics under two
	// names: Reddit maps comment count to Reach and score to Impressions,
	// Twitter has no separate reach and mirrors Impressions into it.
	Reach       int `json:"reach"`
	Impressions int `json:"impressions"`

	// EngagedUsers is the sum of the platform's positive interactions
	// (likes+comments+shares, retweets+replies, upvotes).
	EngagedUsers int `json:"engaged_users"`

	// EngagementRate is EngagedUsers/Impressions when Impressions > 0, else 0.
	// Some platform rules override the formula; each adapter documents its own.
	EngagementRate float64 `json:"engagement_rate"`

	// Reactions holds the platform's named counts (like, comment, share,
	// retweet, reply, upvote, downvote). Never nil on adapter output.
	Reactions map[string]int `json:"reactions"`

	Permalink string `json:"permalink,omitempty"`
	Subreddit string `json:"subreddit,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// RankedPost pairs a selected post with a flag telling whether the selection
// actually happened (false when the post list was empty).
type RankedPost struct {
	Post       Post `json:"post"`
	Configured bool `json:"configured"`
}

// NewPost returns a Post with all collection fields initialized so adapters
// can fill it incrementally without nil checks downstream.
func NewPost(id string) Post {
	return Post{
		ID:        id,
		Reactions: map[string]int{},
	}
}
