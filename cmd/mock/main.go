package main

import (
	"log"
	"net/http"
)

// Mock upstream facade for local runs: serves vendor-shaped JSON for the four
// platforms plus the shared accounts endpoint.
func main() {
	mux := http.NewServeMux()

	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}

	serve("/api/social-media/accounts", `{"success": true, "accounts": [
		{"account_id": "acc-1", "display_name": "Main Account", "is_active": true},
		{"account_id": "acc-2", "display_name": "Old Account", "is_active": false}
	]}`)

	serve("/api/facebook/account/info", `{"success": true, "account": {"name": "Demo Page", "followers_count": 1200}}`)
	serve("/api/facebook/account/analytics", `{"success": true, "analytics": {
		"followers_by_country": {"US": 700, "DE": 300, "IN": 200},
		"followers_by_age_gender": {"F.25-34": 380, "M.25-34": 350, "F.35-44": 240}
	}}`)
	serve("/api/facebook/posts/my", `{"success": true, "posts": [
		{"id": "fb-1", "message": "Launch day!", "created_time": "2026-08-20T10:00:00Z",
		 "reactions_count": 52, "comments_count": 12, "shares_count": 5,
		 "insights": {"data": [
			{"name": "post_impressions", "values": [{"value": 400}, {"value": 950}]},
			{"name": "post_reach", "values": [{"value": 300}, {"value": 720}]},
			{"name": "post_engaged_users", "values": [{"value": 40}, {"value": 88}]}
		 ]}},
		{"id": "fb-2", "message": "Behind the scenes", "created_time": "2026-08-22T15:30:00Z",
		 "reactions_count": 18, "comments_count": 3, "shares_count": 1}
	]}`)

	serve("/api/instagram/account/info", `{"success": true, "account": {"username": "demo.brand", "followers_count": 3400}}`)
	serve("/api/instagram/account/analytics", `{"success": true, "analytics": {"profile_views": 410, "website_clicks": 37}}`)
	serve("/api/instagram/media", `{"success": true, "media": [
		{"id": "ig-1", "caption": "New drop", "media_type": "IMAGE", "timestamp": "2026-08-21T09:00:00Z",
		 "like_count": 140, "comments_count": 22, "total_engagement": 162, "permalink": "https://instagram.com/p/ig-1"},
		{"id": "ig-2", "caption": "Reel time", "media_type": "VIDEO", "timestamp": "2026-08-23T18:00:00Z",
		 "like_count": 64, "comments_count": 9, "total_engagement": 73, "permalink": "https://instagram.com/p/ig-2"}
	]}`)

	serve("/api/twitter/account/info", `{"success": true, "user": {"screen_name": "demo_brand", "followers_count": 2100}}`)
	serve("/api/twitter/account/analytics", `{"success": true, "analytics": {"tweet_count": 830}}`)
	serve("/api/twitter/posts/my", `{"success": true, "tweets": [
		{"id": "tw-1", "text": "We shipped it", "created_at": "2026-08-24T12:00:00Z",
		 "impressions": 5400, "like_count": 96, "retweet_count": 31, "reply_count": 12, "permalink": "https://x.com/demo_brand/status/tw-1"},
		{"id": "tw-2", "text": "Hiring!", "created_at": "2026-08-25T12:00:00Z",
		 "impressions": 1800, "like_count": 22, "retweet_count": 4, "reply_count": 6, "permalink": "https://x.com/demo_brand/status/tw-2"}
	]}`)

	serve("/api/reddit/account/info", `{"success": true, "user": {"name": "demo_brand", "link_karma": 940, "comment_karma": 310, "total_karma": 1250}}`)
	serve("/api/reddit/posts/my", `{"success": true, "posts": [
		{"id": "rd-1", "title": "Show off: our dashboard", "score": 100, "num_comments": 5,
		 "subreddit": "golang", "permalink": "/r/golang/comments/rd-1", "created_utc": 1756200000},
		{"id": "rd-2", "title": "Ask me anything", "score": 10, "num_comments": 50,
		 "subreddit": "startups", "permalink": "/r/startups/comments/rd-2", "created_utc": 1756300000}
	]}`)

	log.Println("mock upstream running on port 8081")
	log.Fatal(http.ListenAndServe(":8081", mux))
}
