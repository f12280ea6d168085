package news

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"wallboard/app/cache"
	"wallboard/app/config"
	"wallboard/app/reddit"
	"wallboard/app/rss"
	"wallboard/app/status"
)

const (
	StreamName   = "news"
	fatalMessage = "News feeds failed to load"
	itemsPerFeed = 10
	redditSort   = "hot"
)

// Headline is one ticker entry merged from RSS feeds and subreddits. A nil
// Date means the upstream omitted it; dateless headlines sort last.
type Headline struct {
	Title  string     `json:"title"`
	Source string     `json:"source"`
	Type   string     `json:"type"` // "rss" or "reddit"
	Link   string     `json:"link"`
	Date   *time.Time `json:"date"`
}

// Aggregator merges all enabled RSS feeds and subreddits into one sorted
// headline collection behind a TTL cache. Per-source failures are logged and
// skipped; the contract is best effort across sources.
type Aggregator struct {
	cfg    config.NewsConfig
	rss    *rss.Adapter
	reddit *reddit.Adapter
	board  *status.Board
	cache  *cache.Cache[[]Headline]
}

func NewAggregator(cfg config.NewsConfig, rssAdapter *rss.Adapter, redditAdapter *reddit.Adapter, board *status.Board) *Aggregator {
	a := &Aggregator{
		cfg:    cfg,
		rss:    rssAdapter,
		reddit: redditAdapter,
		board:  board,
	}
	a.cache = cache.New(StreamName, time.Duration(cfg.RefreshInterval)*time.Second, a.produce)
	return a
}

func (a *Aggregator) Headlines(ctx context.Context) ([]Headline, error) {
	return a.cache.Get(ctx)
}

func (a *Aggregator) Refresh(ctx context.Context) error {
	return a.cache.Refresh(ctx)
}

// produce fans out one fetch per enabled source, joins the results, and
// re-imposes a deterministic order on the merged collection.
func (a *Aggregator) produce(ctx context.Context) ([]Headline, error) {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		merged []Headline
	)

	collect := func(items []Headline) {
		mu.Lock()
		merged = append(merged, items...)
		mu.Unlock()
	}

	for _, feed := range a.cfg.RSSFeeds {
		if !feed.Enabled {
			continue
		}
		wg.Add(1)
		go func(feed config.RSSFeed) {
			defer wg.Done()
			items, err := a.rss.Fetch(ctx, feed.URL)
			if err != nil {
				slog.Warn("RSS feed fetch failed, skipping", "feed", feed.Name, "url", feed.URL, "error", err)
				return
			}
			if len(items) > itemsPerFeed {
				items = items[:itemsPerFeed]
			}
			collect(fromRSS(feed.Name, items))
		}(feed)
	}

	if a.cfg.Reddit.Enabled {
		for _, subreddit := range a.cfg.Reddit.Subreddits {
			wg.Add(1)
			go func(subreddit string) {
				defer wg.Done()
				posts, err := a.reddit.Headlines(ctx, subreddit, redditSort, itemsPerFeed)
				if err != nil {
					slog.Warn("Subreddit fetch failed, skipping", "subreddit", subreddit, "error", err)
					return
				}
				collect(fromReddit(posts))
			}(subreddit)
		}
	}

	wg.Wait()

	sortHeadlines(merged)

	if len(merged) == 0 {
		a.board.Set(StreamName, fatalMessage)
	} else {
		a.board.Clear(StreamName)
	}

	slog.Info("Headlines refreshed", "count", len(merged))
	return merged, nil
}

func fromRSS(sourceName string, items []rss.Item) []Headline {
	out := make([]Headline, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "No Title"
		}
		out = append(out, Headline{
			Title:  title,
			Source: sourceName,
			Type:   "rss",
			Link:   item.Link,
			Date:   item.Date,
		})
	}
	return out
}

func fromReddit(posts []reddit.Post) []Headline {
	out := make([]Headline, 0, len(posts))
	for _, post := range posts {
		out = append(out, Headline{
			Title:  post.Title,
			Source: "r/" + post.Subreddit,
			Type:   "reddit",
			Link:   post.Link,
			Date:   post.Date,
		})
	}
	return out
}

// sortHeadlines orders newest first; a missing date counts as time zero, so
// dateless headlines always land at the end.
func sortHeadlines(headlines []Headline) {
	slices.SortStableFunc(headlines, func(a, b Headline) int {
		var at, bt int64
		if a.Date != nil {
			at = a.Date.UnixMilli()
		}
		if b.Date != nil {
			bt = b.Date.UnixMilli()
		}
		switch {
		case bt > at:
			return 1
		case bt < at:
			return -1
		default:
			return 0
		}
	})
}
