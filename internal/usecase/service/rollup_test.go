package service

import (
	"reflect"
	"testing"

	"social-analytics-backend/internal/entity"
)

func snapshotWithPosts(posts ...entity.Post) *entity.AnalyticsSnapshot {
	snapshot := entity.NewEmptySnapshot(entity.PlatformTwitter)
	snapshot.Posts = posts
	return snapshot
}

func TestEnsureBestWorstFillsMissingSelections(t *testing.T) {
	snapshot := snapshotWithPosts(
		entity.Post{ID: "a", EngagedUsers: 5, Impressions: 100},
		entity.Post{ID: "b", EngagedUsers: 50, Impressions: 10},
		entity.Post{ID: "c", EngagedUsers: 1, Impressions: 1},
	)

	EnsureBestWorst(snapshot)

	if snapshot.BestPost.Post.ID != "b" || !snapshot.BestPost.Configured {
		t.Errorf("best should be the interaction leader, got %q", snapshot.BestPost.Post.ID)
	}
	if snapshot.WorstPost.Post.ID != "c" || !snapshot.WorstPost.Configured {
		t.Errorf("worst should be the interaction trailer, got %q", snapshot.WorstPost.Post.ID)
	}
	if snapshot.Overview.Totals.BestPostID != "b" {
		t.Errorf("overview best post id not synced, got %q", snapshot.Overview.Totals.BestPostID)
	}
}

func TestEnsureBestWorstIdempotent(t *testing.T) {
	snapshot := snapshotWithPosts(
		entity.Post{ID: "a", EngagedUsers: 5, Impressions: 100},
		entity.Post{ID: "b", EngagedUsers: 50, Impressions: 10},
	)
	EnsureBestWorst(snapshot)

	first := *snapshot
	EnsureBestWorst(snapshot)

	if !reflect.DeepEqual(first.BestPost, snapshot.BestPost) || !reflect.DeepEqual(first.WorstPost, snapshot.WorstPost) {
		t.Error("applying EnsureBestWorst to its own output must be a no-op")
	}
}

func TestEnsureBestWorstEmptyPosts(t *testing.T) {
	snapshot := entity.NewEmptySnapshot(entity.PlatformReddit)

	EnsureBestWorst(snapshot)

	if snapshot.BestPost.Configured || snapshot.WorstPost.Configured {
		t.Error("no posts means no selections")
	}
	if snapshot.BestPost.Post.ID != "" || snapshot.WorstPost.Post.ID != "" {
		t.Error("selections must stay empty on an empty post list")
	}
}

func TestEnsureBestWorstRespectsAdapterChoice(t *testing.T) {
	snapshot := snapshotWithPosts(
		entity.Post{ID: "a", EngagedUsers: 5},
		entity.Post{ID: "b", EngagedUsers: 50},
	)
	// The adapter already picked "a"; impressions-based rescoring must not
	// override it.
	snapshot.BestPost = entity.RankedPost{Post: snapshot.Posts[0], Configured: true}

	EnsureBestWorst(snapshot)

	if snapshot.BestPost.Post.ID != "a" {
		t.Errorf("adapter-chosen best must survive, got %q", snapshot.BestPost.Post.ID)
	}
	if !snapshot.WorstPost.Configured {
		t.Error("missing worst must still be completed")
	}
}

func TestRankScoreMonotonicInEngagedUsers(t *testing.T) {
	prev := -1.0
	for engaged := 0; engaged < 100; engaged += 7 {
		score := RankScore(entity.Post{EngagedUsers: engaged, Impressions: 5000})
		if score <= prev {
			t.Fatalf("score must grow with engaged users: %v then %v at engaged=%d", prev, score, engaged)
		}
		prev = score
	}
}

func TestRankScoreImpressionsOnlyTieBreak(t *testing.T) {
	lowEngagedHighImpressions := RankScore(entity.Post{EngagedUsers: 10, Impressions: 900})
	highEngagedLowImpressions := RankScore(entity.Post{EngagedUsers: 11, Impressions: 0})
	if lowEngagedHighImpressions >= highEngagedLowImpressions {
		t.Error("interaction count must dominate impressions")
	}
}

func TestMergeOverviewTouchesOnlyOverview(t *testing.T) {
	snapshot := snapshotWithPosts(entity.Post{ID: "a", EngagedUsers: 3})
	snapshot.Demographics.BySubreddit["go"] = 2
	patch := entity.Overview{
		Totals:           entity.Totals{Followers: 999, Impressions: 123},
		MetricsAvailable: true,
		Configured:       true,
	}

	merged := MergeOverview(snapshot, patch)

	if merged == snapshot {
		t.Fatal("merge must produce a new snapshot value")
	}
	if !reflect.DeepEqual(merged.Overview, patch) {
		t.Errorf("overview not replaced: %+v", merged.Overview)
	}
	if len(merged.Posts) != 1 || merged.Posts[0].ID != "a" {
		t.Error("posts must never change on a live patch")
	}
	if merged.Demographics.BySubreddit["go"] != 2 {
		t.Error("demographics must never change on a live patch")
	}
	if snapshot.Overview.Totals.Followers == 999 {
		t.Error("the original snapshot must stay untouched")
	}
}
