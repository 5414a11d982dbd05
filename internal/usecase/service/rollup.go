package service

import (
	"social-analytics-backend/internal/entity"
)

// rankingImpressionsWeight keeps raw interaction count dominant in the
// ranking score; impressions act only as a tie-breaker.
const rankingImpressionsWeight = 0.001

// RankScore is the generic post ranking score used when an adapter did not
// pick best/worst posts itself. Monotonic in EngagedUsers for fixed
// Impressions.
func RankScore(post entity.Post) float64 {
	return float64(post.EngagedUsers) + float64(post.Impressions)*rankingImpressionsWeight
}

// EnsureBestWorst completes a snapshot whose adapter left best and/or worst
// post unset while the post list is non-empty. Idempotent: a snapshot that
// already carries both selections passes through unchanged, so does one with
// no posts. Both selections always reference members of snapshot.Posts.
func EnsureBestWorst(snapshot *entity.AnalyticsSnapshot) *entity.AnalyticsSnapshot {
	if snapshot == nil || len(snapshot.Posts) == 0 {
		return snapshot
	}

	if !snapshot.BestPost.Configured {
		best := snapshot.Posts[0]
		for _, post := range snapshot.Posts[1:] {
			if RankScore(post) > RankScore(best) {
				best = post
			}
		}
		snapshot.BestPost = entity.RankedPost{Post: best, Configured: true}
	}
	if !snapshot.WorstPost.Configured {
		worst := snapshot.Posts[0]
		for _, post := range snapshot.Posts[1:] {
			if RankScore(post) < RankScore(worst) {
				worst = post
			}
		}
		snapshot.WorstPost = entity.RankedPost{Post: worst, Configured: true}
	}
	if snapshot.Overview.Totals.BestPostID == "" && snapshot.BestPost.Configured {
		snapshot.Overview.Totals.BestPostID = snapshot.BestPost.Post.ID
	}
	return snapshot
}

// MergeOverview returns a copy of the snapshot with only the overview
// sub-object replaced by the patch. Posts, demographics and status are never
// touched by a live update; they refresh solely via full fetch.
func MergeOverview(snapshot *entity.AnalyticsSnapshot, patch entity.Overview) *entity.AnalyticsSnapshot {
	if snapshot == nil {
		return nil
	}
	merged := *snapshot
	merged.Overview = patch
	return &merged
}
