package facebook

import (
	"time"

	"github.com/tidwall/gjson"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/usecase"
)

const (
	CallAccount   = "account"
	CallAnalytics = "analytics"
	CallPosts     = "posts"
)

// Insight metric names carried in a post's insights time series.
const (
	metricImpressions  = "post_impressions"
	metricReach        = "post_reach"
	metricEngagedUsers = "post_engaged_users"
)

// Analytics adapts Facebook responses into the canonical model.
//
// Post metrics come from a named insights time series; the *last* value of
// each series wins. When insights are absent the adapter falls back to raw
// reaction/comment/share counts, and reach defaults to impressions when the
// explicit reach insight is missing.
type Analytics struct{}

func NewAnalytics() usecase.AnalyticsPlatform {
	return &Analytics{}
}

func (a *Analytics) Platform() entity.Platform {
	return entity.PlatformFacebook
}

func (a *Analytics) Calls(accountID string) []entity.RemoteCall {
	query := map[string]string{}
	if accountID != "" {
		query["account_id"] = accountID
	}
	postsQuery := map[string]string{"limit": "25"}
	if accountID != "" {
		postsQuery["account_id"] = accountID
	}
	return []entity.RemoteCall{
		{Name: CallAccount, Path: "/api/facebook/account/info", Query: query},
		{Name: CallAnalytics, Path: "/api/facebook/account/analytics", Query: query},
		{Name: CallPosts, Path: "/api/facebook/posts/my", Query: postsQuery},
	}
}

func (a *Analytics) Adapt(raw *entity.RawBundle) *entity.AnalyticsSnapshot {
	snapshot := entity.NewEmptySnapshot(entity.PlatformFacebook)
	snapshot.Overview.Configured = true

	if account, ok := payload(raw.Get(CallAccount)); ok {
		info := account.Get("account")
		snapshot.Followers = int(info.Get("followers_count").Int())
		if snapshot.Followers == 0 {
			snapshot.Followers = int(info.Get("fan_count").Int())
		}
		snapshot.Status.Account = toMap(info)
	}

	if analytics, ok := payload(raw.Get(CallAnalytics)); ok {
		body := analytics.Get("analytics")
		if !body.Exists() {
			body = analytics.Get("summary")
		}
		snapshot.Status.Summary = toMap(body)
		body.Get("followers_by_country").ForEach(func(key, value gjson.Result) bool {
			snapshot.Demographics.ByCountry[key.String()] = int(value.Int())
			return true
		})
		body.Get("followers_by_age_gender").ForEach(func(key, value gjson.Result) bool {
			snapshot.Demographics.ByAgeGender[key.String()] = int(value.Int())
			return true
		})
	}

	if body, ok := payload(raw.Get(CallPosts)); ok {
		snapshot.Overview.MetricsAvailable = true

		var totalImpressions, totalReach, totalEngaged int
		for _, fp := range body.Get("posts").Array() {
			post := adaptPagePost(fp)
			totalImpressions += post.Impressions
			totalReach += post.Reach
			totalEngaged += post.EngagedUsers
			snapshot.Posts = append(snapshot.Posts, post)
		}

		snapshot.Overview.Totals.Impressions = totalImpressions
		snapshot.Overview.Totals.Reach = totalReach
		if totalImpressions > 0 {
			snapshot.Overview.Totals.EngagementRate = float64(totalEngaged) / float64(totalImpressions)
		}
	}

	snapshot.Overview.Totals.Followers = snapshot.Followers
	return snapshot
}

func adaptPagePost(fp gjson.Result) entity.Post {
	post := entity.NewPost(fp.Get("id").String())
	post.Text = fp.Get("message").String()
	if created := fp.Get("created_time").String(); created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			post.CreatedAt = &t
		}
	}

	reactions := int(fp.Get("reactions_count").Int())
	comments := int(fp.Get("comments_count").Int())
	shares := int(fp.Get("shares_count").Int())
	post.Reactions["like"] = reactions
	post.Reactions["comment"] = comments
	post.Reactions["share"] = shares

	insights := fp.Get("insights.data")
	impressions, hasImpressions := lastInsightValue(insights, metricImpressions)
	reach, hasReach := lastInsightValue(insights, metricReach)
	engaged, hasEngaged := lastInsightValue(insights, metricEngagedUsers)

	post.Impressions = impressions
	if !hasImpressions {
		post.Impressions = reactions + comments + shares
	}
	post.Reach = reach
	if !hasReach {
		post.Reach = post.Impressions
	}
	post.EngagedUsers = engaged
	if !hasEngaged {
		post.EngagedUsers = reactions + comments + shares
	}
	if post.Impressions > 0 {
		post.EngagementRate = float64(post.EngagedUsers) / float64(post.Impressions)
	}
	post.Permalink = fp.Get("permalink_url").String()
	return post
}

// lastInsightValue extracts the final value of the named metric's time
// series. Facebook delivers insights as cumulative series; only the last
// sample reflects the current total.
func lastInsightValue(insights gjson.Result, name string) (int, bool) {
	for _, metric := range insights.Array() {
		if metric.Get("name").String() != name {
			continue
		}
		values := metric.Get("values").Array()
		if len(values) == 0 {
			return 0, false
		}
		return int(values[len(values)-1].Get("value").Int()), true
	}
	return 0, false
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
