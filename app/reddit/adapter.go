package reddit

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"wallboard/app/fetch"
)

const siteOrigin = "https://www.reddit.com"

// The public listing endpoint rejects non-browser user agents, so requests
// carry browser-like headers and fall back from www to old.reddit.com.
var defaultHosts = []string{"https://www.reddit.com", "https://old.reddit.com"}

var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":                    "application/json, text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Sec-Ch-Ua":                 `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
	"Sec-Ch-Ua-Mobile":          "?0",
	"Sec-Ch-Ua-Platform":        `"Windows"`,
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Upgrade-Insecure-Requests": "1",
}

// Wallpaper candidates must roughly match a 16:9 display. Ratios are rounded
// to one decimal before comparison, same as the tolerance.
const (
	targetAspectRatio = 1.8 // 1920/1080 rounded to one decimal
	aspectTolerance   = 0.1
)

var imageExtension = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)

type Adapter struct {
	client *fetch.Client
	hosts  []string
}

func NewAdapter(client *fetch.Client) *Adapter {
	return &Adapter{
		client: client,
		hosts:  defaultHosts,
	}
}

// Headlines fetches a subreddit listing and normalizes posts for the news
// ticker.
func (a *Adapter) Headlines(ctx context.Context, subreddit, sort string, limit int) ([]Post, error) {
	l, err := a.fetchListing(ctx, subreddit, sort, limit)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		raw := child.Data

		var date *time.Time
		if raw.CreatedUTC != nil {
			t := time.Unix(int64(*raw.CreatedUTC), 0)
			date = &t
		}

		posts = append(posts, Post{
			Title:     raw.Title,
			Subreddit: subreddit,
			Link:      siteOrigin + raw.Permalink,
			Date:      date,
		})
		if limit > 0 && len(posts) >= limit {
			break
		}
	}

	return posts, nil
}

// WallpaperImages fetches a subreddit listing and keeps only posts that
// resolve to a directly loadable image with a near-16:9 preview. Posts
// failing any filter are dropped silently; filtering is not an error.
func (a *Adapter) WallpaperImages(ctx context.Context, subreddit string, limit int) ([]Image, error) {
	l, err := a.fetchListing(ctx, subreddit, "hot", limit)
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		raw := child.Data

		if img, ok := extractImage(raw, subreddit); ok {
			images = append(images, img)
		}
	}

	return images, nil
}

func extractImage(raw rawPost, subreddit string) (Image, bool) {
	// Gallery posts carry multiple images and no single direct URL.
	if strings.Contains(raw.URL, "gallery") {
		return Image{}, false
	}

	if raw.Preview == nil || len(raw.Preview.Images) == 0 {
		return Image{}, false
	}
	source := raw.Preview.Images[0].Source

	if source.Width > 0 && source.Height > 0 {
		ratio := math.Round(float64(source.Width)/float64(source.Height)*10) / 10
		if math.Abs(ratio-targetAspectRatio) > aspectTolerance {
			return Image{}, false
		}
	}

	// Prefer the post's own URL when it points straight at an image,
	// otherwise fall back to the preview source with HTML entities
	// un-escaped.
	imageURL := raw.URL
	if imageURL == "" || (!imageExtension.MatchString(imageURL) && !strings.Contains(imageURL, "i.redd.it")) {
		if source.URL == "" {
			return Image{}, false
		}
		imageURL = strings.ReplaceAll(source.URL, "&amp;", "&")
	}

	return Image{
		URL:       imageURL,
		Title:     raw.Title,
		Author:    raw.Author,
		Score:     raw.Score,
		Subreddit: subreddit,
		Credit:    buildCredit(raw.Title, subreddit),
	}, true
}

func buildCredit(title, subreddit string) string {
	if len(title) > 80 {
		title = title[:77] + "..."
	}
	if title == "" {
		return "r/" + subreddit
	}
	return fmt.Sprintf("%s - r/%s", title, subreddit)
}

func (a *Adapter) fetchListing(ctx context.Context, subreddit, sort string, limit int) (*listing, error) {
	if sort == "" {
		sort = "hot"
	}
	path := fmt.Sprintf("/r/%s/%s.json?limit=%d", subreddit, sort, limit)

	var lastErr error
	for _, host := range a.hosts {
		var l listing
		if err := a.client.JSON(ctx, host+path, browserHeaders, &l); err != nil {
			lastErr = err
			continue
		}
		return &l, nil
	}

	return nil, fmt.Errorf("all listing hosts failed for r/%s: %w", subreddit, lastErr)
}
