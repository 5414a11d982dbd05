package instagram

import (
	"time"

	"github.com/tidwall/gjson"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/usecase"
)

const (
	CallAccount   = "account"
	CallAnalytics = "analytics"
	CallMedia     = "media"
)

// Analytics adapts Instagram responses into the canonical model.
//
// total_engagement doubles as both reach and impressions, engaged users is
// the comment count, and the rate is (comments/likes)*100 when likes are
// positive. The platform exposes no country or age demographics: those maps
// stay empty while the snapshot still reports Configured=true so the consumer
// renders a platform-appropriate empty state instead of a "no data" error.
type Analytics struct{}

func NewAnalytics() usecase.AnalyticsPlatform {
	return &Analytics{}
}

func (a *Analytics) Platform() entity.Platform {
	return entity.PlatformInstagram
}

func (a *Analytics) Calls(accountID string) []entity.RemoteCall {
	query := map[string]string{}
	if accountID != "" {
		query["account_id"] = accountID
	}
	mediaQuery := map[string]string{"limit": "25"}
	if accountID != "" {
		mediaQuery["account_id"] = accountID
	}
	return []entity.RemoteCall{
		{Name: CallAccount, Path: "/api/instagram/account/info", Query: query},
		{Name: CallAnalytics, Path: "/api/instagram/account/analytics", Query: query},
		{Name: CallMedia, Path: "/api/instagram/media", Query: mediaQuery},
	}
}

func (a *Analytics) Adapt(raw *entity.RawBundle) *entity.AnalyticsSnapshot {
	snapshot := entity.NewEmptySnapshot(entity.PlatformInstagram)
	snapshot.Overview.Configured = true

	if account, ok := payload(raw.Get(CallAccount)); ok {
		info := account.Get("account")
		snapshot.Followers = int(info.Get("followers_count").Int())
		snapshot.Status.Account = toMap(info)
	}
	if analytics, ok := payload(raw.Get(CallAnalytics)); ok {
		summary := analytics.Get("analytics")
		if !summary.Exists() {
			summary = analytics.Get("summary")
		}
		snapshot.Status.Summary = toMap(summary)
	}

	if body, ok := payload(raw.Get(CallMedia)); ok {
		snapshot.Overview.MetricsAvailable = true

		var totalEngagement, totalComments int
		for _, m := range body.Get("media").Array() {
			post := adaptMedia(m)
			totalEngagement += post.Impressions
			totalComments += post.EngagedUsers

			if post.MediaType != "" {
				snapshot.Demographics.ByMediaType[post.MediaType]++
			} else {
				snapshot.Demographics.ByEngagementTier[engagementTier(post.Impressions)]++
			}
			snapshot.Posts = append(snapshot.Posts, post)
		}

		snapshot.Overview.Totals.Impressions = totalEngagement
		snapshot.Overview.Totals.Reach = totalEngagement
		if totalEngagement > 0 {
			snapshot.Overview.Totals.EngagementRate = float64(totalComments) / float64(totalEngagement)
		}
	}

	snapshot.Overview.Totals.Followers = snapshot.Followers
	return snapshot
}

func adaptMedia(m gjson.Result) entity.Post {
	post := entity.NewPost(m.Get("id").String())
	post.Text = m.Get("caption").String()
	if ts := m.Get("timestamp").String(); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			post.CreatedAt = &t
		}
	}

	likes := int(m.Get("like_count").Int())
	comments := int(m.Get("comments_count").Int())
	post.Reactions["like"] = likes
	post.Reactions["comment"] = comments

	engagement := int(m.Get("total_engagement").Int())
	if engagement == 0 {
		engagement = likes + comments
	}
	post.Impressions = engagement
	post.Reach = engagement
	post.EngagedUsers = comments
	if likes > 0 {
		post.EngagementRate = float64(comments) / float64(likes) * 100
	}
	post.Permalink = m.Get("permalink").String()
	post.MediaType = m.Get("media_type").String()
	return post
}

// engagementTier buckets media by total engagement when media_type is absent.
func engagementTier(engagement int) string {
	switch {
	case engagement > 100:
		return "high"
	case engagement > 50:
		return "medium"
	default:
		return "low"
	}
}

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
