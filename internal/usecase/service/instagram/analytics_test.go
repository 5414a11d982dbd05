package instagram

import (
	"testing"

	"social-analytics-backend/internal/entity"
)

func mediaBundle(body string) *entity.RawBundle {
	bundle := entity.NewRawBundle(entity.PlatformInstagram)
	bundle.Results[CallMedia] = entity.CallResult{
		Name:       CallMedia,
		Success:    true,
		StatusCode: 200,
		Body:       []byte(body),
	}
	return bundle
}

func TestAdaptEngagementDoublesAsReachAndImpressions(t *testing.T) {
	adapter := NewAnalytics()
	bundle := mediaBundle(`{"success": true, "media": [
		{"id": "m1", "like_count": 80, "comments_count": 20, "total_engagement": 100, "media_type": "IMAGE"}
	]}`)

	post := adapter.Adapt(bundle).Posts[0]
	if post.Impressions != 100 || post.Reach != 100 {
		t.Errorf("total_engagement must fill both metrics, got impressions=%d reach=%d", post.Impressions, post.Reach)
	}
	if post.EngagedUsers != 20 {
		t.Errorf("engaged users should be the comment count, got %d", post.EngagedUsers)
	}
	if want := float64(20) / float64(80) * 100; post.EngagementRate != want {
		t.Errorf("engagement rate: got %v, want %v", post.EngagementRate, want)
	}
}

func TestAdaptZeroLikesRate(t *testing.T) {
	adapter := NewAnalytics()
	bundle := mediaBundle(`{"success": true, "media": [
		{"id": "m1", "like_count": 0, "comments_count": 5, "total_engagement": 5}
	]}`)

	post := adapter.Adapt(bundle).Posts[0]
	if post.EngagementRate != 0 {
		t.Errorf("rate must be 0 when likes are 0, got %v", post.EngagementRate)
	}
}

func TestAdaptDemographicsByMediaType(t *testing.T) {
	adapter := NewAnalytics()
	bundle := mediaBundle(`{"success": true, "media": [
		{"id": "m1", "media_type": "IMAGE", "total_engagement": 10},
		{"id": "m2", "media_type": "VIDEO", "total_engagement": 10},
		{"id": "m3", "media_type": "IMAGE", "total_engagement": 10}
	]}`)

	got := adapter.Adapt(bundle).Demographics.ByMediaType
	if got["IMAGE"] != 2 || got["VIDEO"] != 1 {
		t.Errorf("unexpected media type breakdown: %v", got)
	}
}

func TestAdaptDemographicsFallBackToEngagementTier(t *testing.T) {
	adapter := NewAnalytics()
	bundle := mediaBundle(`{"success": true, "media": [
		{"id": "m1", "total_engagement": 150},
		{"id": "m2", "total_engagement": 75},
		{"id": "m3", "total_engagement": 20}
	]}`)

	got := adapter.Adapt(bundle).Demographics.ByEngagementTier
	if got["high"] != 1 || got["medium"] != 1 || got["low"] != 1 {
		t.Errorf("unexpected tier breakdown: %v", got)
	}
}

func TestAdaptLeavesCountryAndAgeEmptyButConfigured(t *testing.T) {
	adapter := NewAnalytics()
	bundle := mediaBundle(`{"success": true, "media": [{"id": "m1", "total_engagement": 10}]}`)

	snapshot := adapter.Adapt(bundle)
	if len(snapshot.Demographics.ByCountry) != 0 || len(snapshot.Demographics.ByAgeGender) != 0 {
		t.Error("instagram must not invent country/age demographics")
	}
	if snapshot.Demographics.ByCountry == nil || snapshot.Demographics.ByAgeGender == nil {
		t.Error("empty demographic maps must still be initialized")
	}
	if !snapshot.Overview.Configured {
		t.Error("snapshot must stay configured so the consumer shows an empty state, not an error")
	}
}
