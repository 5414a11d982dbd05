package reddit

import (
	"time"

	"github.com/tidwall/gjson"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/usecase"
)

const (
	CallAccount = "account"
	CallPosts   = "posts"
)

// Analytics adapts Reddit responses into the canonical model.
//
// Reddit has no reach concept: comment count maps to reach and score
// (upvotes) to impressions. Engagement rate is (comments/score)*100 when the
// score is positive. Demographics bucket posts by subreddit. Best and worst
// posts are picked by score, not by the generic ranking formula.
type Analytics struct{}

func NewAnalytics() usecase.AnalyticsPlatform {
	return &Analytics{}
}

func (a *Analytics) Platform() entity.Platform {
	return entity.PlatformReddit
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
		{Name: CallAccount, Path: "/api/reddit/account/info", Query: query},
		{Name: CallPosts, Path: "/api/reddit/posts/my", Query: postsQuery},
	}
}

func (a *Analytics) Adapt(raw *entity.RawBundle) *entity.AnalyticsSnapshot {
	snapshot := entity.NewEmptySnapshot(entity.PlatformReddit)
	snapshot.Overview.Configured = true

	if account, ok := payload(raw.Get(CallAccount)); ok {
		user := account.Get("user")
		// Reddit has no follower count; total karma is the closest headline
		// number the dashboard shows in its place.
		snapshot.Followers = int(user.Get("total_karma").Int())
		if snapshot.Followers == 0 {
			snapshot.Followers = int(user.Get("link_karma").Int() + user.Get("comment_karma").Int())
		}
		snapshot.Status.Account = toMap(user)
	}

	if body, ok := payload(raw.Get(CallPosts)); ok {
		snapshot.Overview.MetricsAvailable = true

		var totalScore, totalComments int
		var bestScore, worstScore int

		// Scores can be negative, so the first post seeds both selections
		// instead of a sentinel value.
		for i, rp := range body.Get("posts").Array() {
			post := adaptSubmission(rp)
			totalScore += post.Impressions
			totalComments += post.Reach

			if post.Subreddit != "" {
				snapshot.Demographics.BySubreddit[post.Subreddit]++
			}
			if i == 0 || post.Impressions > bestScore {
				bestScore = post.Impressions
				snapshot.BestPost = entity.RankedPost{Post: post, Configured: true}
			}
			if i == 0 || post.Impressions < worstScore {
				worstScore = post.Impressions
				snapshot.WorstPost = entity.RankedPost{Post: post, Configured: true}
			}
			snapshot.Posts = append(snapshot.Posts, post)
		}

		snapshot.Overview.Totals.Impressions = totalScore
		snapshot.Overview.Totals.Reach = totalComments
		if totalScore > 0 {
			snapshot.Overview.Totals.EngagementRate = float64(totalComments) / float64(totalScore) * 100
		}
		snapshot.Overview.Totals.BestPostID = snapshot.BestPost.Post.ID
	}

	snapshot.Overview.Totals.Followers = snapshot.Followers
	return snapshot
}

func adaptSubmission(rp gjson.Result) entity.Post {
	post := entity.NewPost(rp.Get("id").String())
	post.Text = rp.Get("title").String()
	if post.Text == "" {
		post.Text = rp.Get("selftext").String()
	}
	if createdUTC := rp.Get("created_utc").Float(); createdUTC > 0 {
		t := time.Unix(int64(createdUTC), 0).UTC()
		post.CreatedAt = &t
	}

	score := int(rp.Get("score").Int())
	comments := int(rp.Get("num_comments").Int())
	post.Reactions["upvote"] = score
	post.Reactions["comment"] = comments
	if downs := rp.Get("downs"); downs.Exists() {
		post.Reactions["downvote"] = int(downs.Int())
	}

	post.Impressions = score
	post.Reach = comments
	post.EngagedUsers = score + comments
	if score > 0 {
		post.EngagementRate = float64(comments) / float64(score) * 100
	}
	post.Permalink = rp.Get("permalink").String()
	post.Subreddit = rp.Get("subreddit").String()
	return post
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
