package twitter

import (
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/usecase"
)

// Call names inside the raw bundle.
const (
	CallAccount   = "account"
	CallAnalytics = "analytics"
	CallPosts     = "posts"
)

const postsLimit = 25

// Analytics adapts Twitter/X responses into the canonical model.
//
// Mapping rules: reach mirrors impressions (the platform exposes no separate
// reach), per-tweet engagement rate is (like+retweet+reply)/impressions, and
// the overview rate divides total interactions by average-impressions-times-
// count. The overview denominator is an intentional quirk of the upstream
// dashboard and must not be "fixed" to the per-post formula.
type Analytics struct{}

func NewAnalytics() usecase.AnalyticsPlatform {
	return &Analytics{}
}

func (a *Analytics) Platform() entity.Platform {
	return entity.PlatformTwitter
}

func (a *Analytics) Calls(accountID string) []entity.RemoteCall {
	query := map[string]string{}
	if accountID != "" {
		query["account_id"] = accountID
	}
	postsQuery := map[string]string{"limit": strconv.Itoa(postsLimit)}
	if accountID != "" {
		postsQuery["account_id"] = accountID
	}
	return []entity.RemoteCall{
		{Name: CallAccount, Path: "/api/twitter/account/info", Query: query},
		{Name: CallAnalytics, Path: "/api/twitter/account/analytics", Query: query},
		{Name: CallPosts, Path: "/api/twitter/posts/my", Query: postsQuery},
	}
}

func (a *Analytics) Adapt(raw *entity.RawBundle) *entity.AnalyticsSnapshot {
	snapshot := entity.NewEmptySnapshot(entity.PlatformTwitter)
	snapshot.Overview.Configured = true

	if account, ok := payload(raw.Get(CallAccount)); ok {
		user := account.Get("user")
		snapshot.Followers = int(user.Get("followers_count").Int())
		snapshot.Status.Account = toMap(user)
	}
	if analytics, ok := payload(raw.Get(CallAnalytics)); ok {
		summary := analytics.Get("analytics")
		if !summary.Exists() {
			summary = analytics.Get("summary")
		}
		snapshot.Status.Summary = toMap(summary)
	}

	posts := raw.Get(CallPosts)
	if body, ok := payload(posts); ok {
		snapshot.Overview.MetricsAvailable = true

		var totalImpressions, totalInteractions int
		bestInteractions := -1
		bestID := ""

		for _, tw := range body.Get("tweets").Array() {
			post := adaptTweet(tw)
			interactions := post.EngagedUsers
			totalImpressions += post.Impressions
			totalInteractions += interactions
			// Ties break in array order: the first max wins.
			if interactions > bestInteractions {
				bestInteractions = interactions
				bestID = post.ID
				snapshot.BestPost = entity.RankedPost{Post: post, Configured: true}
			}
			tier := engagementTier(interactions)
			snapshot.Demographics.ByEngagementTier[tier]++
			snapshot.Posts = append(snapshot.Posts, post)
		}

		count := len(snapshot.Posts)
		if count > 0 && totalImpressions > 0 {
			avgImpressions := float64(totalImpressions) / float64(count)
			snapshot.Overview.Totals.EngagementRate = float64(totalInteractions) / (avgImpressions * float64(count))
		}
		snapshot.Overview.Totals.Impressions = totalImpressions
		snapshot.Overview.Totals.Reach = totalImpressions
		snapshot.Overview.Totals.BestPostID = bestID
	}

	snapshot.Overview.Totals.Followers = snapshot.Followers
	return snapshot
}

func adaptTweet(tw gjson.Result) entity.Post {
	post := entity.NewPost(tw.Get("id").String())
	post.Text = tw.Get("text").String()
	if created := tw.Get("created_at").String(); created != "" {
		if t, err := time.Parse(time.RubyDate, created); err == nil {
			post.CreatedAt = &t
		} else if t, err := time.Parse(time.RFC3339, created); err == nil {
			post.CreatedAt = &t
		}
	}

	likes := int(tw.Get("like_count").Int())
	retweets := int(tw.Get("retweet_count").Int())
	replies := int(tw.Get("reply_count").Int())
	post.Reactions["like"] = likes
	post.Reactions["retweet"] = retweets
	post.Reactions["reply"] = replies

	post.Impressions = int(tw.Get("impressions").Int())
	post.Reach = post.Impressions
	post.EngagedUsers = likes + retweets + replies
	if post.Impressions > 0 {
		post.EngagementRate = float64(post.EngagedUsers) / float64(post.Impressions)
	}
	post.Permalink = tw.Get("permalink").String()
	return post
}

func engagementTier(interactions int) string {
	switch {
	case interactions > 100:
		return "high"
	case interactions > 50:
		return "medium"
	default:
		return "low"
	}
}

// payload returns the parsed body of a successful call whose envelope also
// reports success=true.
func payload(result entity.CallResult) (gjson.Result, bool) {
	if !result.Success || len(result.Body) == 0 {
		return gjson.Result{}, false
	}
	body := gjson.ParseBytes(result.Body)
	if !body.Get("success").Bool() {
		return gjson.Result{}, false
	}
	return body, true
}

func toMap(result gjson.Result) map[string]any {
	if !result.Exists() {
		return nil
	}
	if m, ok := result.Value().(map[string]any); ok {
		return m
	}
	return nil
}
