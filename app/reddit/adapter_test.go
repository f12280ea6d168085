package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wallboard/app/fetch"
)

func previewPost(url string, width, height int) rawPost {
	return rawPost{
		URL: url,
		Preview: &preview{
			Images: []previewImage{{
				Source: previewSource{
					URL:    "https://preview.redd.it/img?width=640&amp;format=pjpg",
					Width:  width,
					Height: height,
				},
			}},
		},
	}
}

func TestAspectRatioFilter(t *testing.T) {
	// 1920x1080 rounds to 1.8, inside the tolerance window
	if _, ok := extractImage(previewPost("https://i.redd.it/a.jpg", 1920, 1080), "wallpaper"); !ok {
		t.Error("Expected 1920x1080 post to pass the aspect filter")
	}

	// 1000x500 rounds to 2.0, outside the tolerance window
	if _, ok := extractImage(previewPost("https://i.redd.it/b.jpg", 1000, 500), "wallpaper"); ok {
		t.Error("Expected 1000x500 post to be excluded")
	}
}

func TestGalleryPostsSkipped(t *testing.T) {
	raw := previewPost("https://www.reddit.com/gallery/abc", 1920, 1080)
	if _, ok := extractImage(raw, "wallpaper"); ok {
		t.Error("Expected gallery post to be skipped")
	}
}

func TestPostsWithoutPreviewSkipped(t *testing.T) {
	var raw rawPost
	raw.URL = "https://i.redd.it/a.jpg"
	if _, ok := extractImage(raw, "wallpaper"); ok {
		t.Error("Expected post without preview images to be skipped")
	}
}

func TestPreviewFallbackUnescapesEntities(t *testing.T) {
	// Post URL is not a direct image link, so the preview source is used
	raw := previewPost("https://example.com/article", 1920, 1080)

	img, ok := extractImage(raw, "wallpaper")
	if !ok {
		t.Fatal("Expected post to pass filters")
	}
	if strings.Contains(img.URL, "&amp;") {
		t.Errorf("Expected HTML entities to be unescaped, got: %s", img.URL)
	}
	if img.URL != "https://preview.redd.it/img?width=640&format=pjpg" {
		t.Errorf("Unexpected fallback URL: %s", img.URL)
	}
}

func TestDirectImageURLPreferred(t *testing.T) {
	raw := previewPost("https://i.imgur.com/pic.PNG", 1920, 1080)

	img, ok := extractImage(raw, "wallpaper")
	if !ok {
		t.Fatal("Expected post to pass filters")
	}
	if img.URL != "https://i.imgur.com/pic.PNG" {
		t.Errorf("Expected post URL to be preferred, got: %s", img.URL)
	}
}

func TestCreditTruncation(t *testing.T) {
	long := strings.Repeat("x", 100)
	credit := buildCredit(long, "wallpaper")

	want := strings.Repeat("x", 77) + "... - r/wallpaper"
	if credit != want {
		t.Errorf("Unexpected credit: %q", credit)
	}

	if buildCredit("", "wallpaper") != "r/wallpaper" {
		t.Errorf("Expected bare subreddit credit for empty title")
	}
}

func TestHeadlinesFromListing(t *testing.T) {
	listing := `{
		"data": {
			"children": [
				{"data": {"title": "First post", "permalink": "/r/canada/comments/1/first/", "created_utc": 1700000000}},
				{"data": {"title": "Dateless post", "permalink": "/r/canada/comments/2/second/"}}
			]
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/canada/hot.json" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("Expected a browser-like user agent")
		}
		w.Write([]byte(listing))
	}))
	defer server.Close()

	adapter := NewAdapter(fetch.NewClient("test", time.Second))
	adapter.hosts = []string{server.URL}

	posts, err := adapter.Headlines(context.Background(), "canada", "hot", 10)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts, got: %d", len(posts))
	}

	first := posts[0]
	if first.Title != "First post" {
		t.Errorf("Unexpected title: %q", first.Title)
	}
	if first.Link != "https://www.reddit.com/r/canada/comments/1/first/" {
		t.Errorf("Unexpected link: %q", first.Link)
	}
	if first.Date == nil || first.Date.Unix() != 1700000000 {
		t.Errorf("Unexpected date: %v", first.Date)
	}

	if posts[1].Date != nil {
		t.Error("Expected nil date when created_utc is absent")
	}
}

func TestHostFallback(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer failing.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"children": [{"data": {"title": "ok", "permalink": "/r/a/1/"}}]}}`))
	}))
	defer working.Close()

	adapter := NewAdapter(fetch.NewClient("test", time.Second))
	adapter.hosts = []string{failing.URL, working.URL}

	posts, err := adapter.Headlines(context.Background(), "canada", "hot", 10)
	if err != nil {
		t.Fatalf("Expected fallback host to succeed, got: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "ok" {
		t.Errorf("Unexpected posts: %+v", posts)
	}
}

func TestAllHostsFailing(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer failing.Close()

	adapter := NewAdapter(fetch.NewClient("test", time.Second))
	adapter.hosts = []string{failing.URL}

	if _, err := adapter.Headlines(context.Background(), "canada", "hot", 10); err == nil {
		t.Error("Expected an error when every host fails")
	}
}
