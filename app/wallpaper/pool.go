package wallpaper

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"wallboard/app/cache"
	"wallboard/app/config"
	"wallboard/app/reddit"
)

const (
	StreamName = "wallpaper"

	postsPerSubreddit = 50
	picsumBase        = "https://picsum.photos/1920/1080"
	picsumPoolSize    = 20
	picsumCredit      = "Photos from Picsum"
)

// Candidate is one wallpaper pool entry. URL is unique within a pool.
type Candidate struct {
	URL       string  `json:"url"`
	Source    string  `json:"source"` // "reddit" or "picsum"
	Credit    string  `json:"credit"`
	Score     *int    `json:"score"`
	Subreddit *string `json:"subreddit"`
}

// Pool aggregates wallpaper candidates from the configured subreddits plus a
// fixed-size synthetic picsum pool that is always available. It owns the
// rotation cursor; the cursor resets to zero whenever the pool is rebuilt.
type Pool struct {
	cfg    config.WallpaperConfig
	reddit *reddit.Adapter
	cache  *cache.Cache[[]Candidate]

	mu     sync.Mutex
	cursor int
	rng    *rand.Rand
}

func NewPool(cfg config.WallpaperConfig, redditAdapter *reddit.Adapter) *Pool {
	p := &Pool{
		cfg:    cfg,
		reddit: redditAdapter,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	p.cache = cache.New(StreamName, time.Duration(cfg.ImagePoolRefreshInterval)*time.Second, p.produce)
	return p
}

func (p *Pool) Images(ctx context.Context) ([]Candidate, error) {
	return p.cache.Get(ctx)
}

func (p *Pool) Refresh(ctx context.Context) error {
	return p.cache.Refresh(ctx)
}

// produce rebuilds the pool wholesale: subreddit candidates in configured
// order, then the synthetic picsum entries, then the selection-type
// transform, then URL deduplication keeping the first occurrence.
func (p *Pool) produce(ctx context.Context) ([]Candidate, error) {
	candidates := make([]Candidate, 0, picsumPoolSize)

	for _, subreddit := range p.cfg.Subreddits {
		images, err := p.reddit.WallpaperImages(ctx, subreddit, postsPerSubreddit)
		if err != nil {
			slog.Warn("Wallpaper subreddit fetch failed, skipping", "subreddit", subreddit, "error", err)
			continue
		}
		for _, img := range images {
			candidates = append(candidates, fromImage(img))
		}
	}

	candidates = append(candidates, p.picsumEntries()...)

	p.mu.Lock()
	applySelection(candidates, p.cfg.SelectionType, p.rng)
	p.mu.Unlock()

	candidates = dedupeByURL(candidates)

	p.mu.Lock()
	p.cursor = 0
	p.mu.Unlock()

	slog.Info("Wallpaper pool rebuilt", "size", len(candidates))
	return candidates, nil
}

// Next returns the entry at the rotation cursor and advances it, wrapping.
// The cursor is taken modulo the pool size so it stays in bounds even when
// the pool shrank since the last call.
func (p *Pool) Next(ctx context.Context) (*Candidate, error) {
	images, err := p.Images(ctx)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, nil
	}

	p.mu.Lock()
	img := images[p.cursor%len(images)]
	p.cursor = (p.cursor + 1) % len(images)
	p.mu.Unlock()

	return &img, nil
}

// Random returns one uniformly random pool entry, ignoring the cursor. An
// empty pool yields an ad-hoc picsum entry rather than a failure.
func (p *Pool) Random(ctx context.Context) (*Candidate, error) {
	images, err := p.Images(ctx)
	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		return &Candidate{
			URL:    fmt.Sprintf("%s?random=%d", picsumBase, time.Now().UnixMilli()),
			Source: "picsum",
			Credit: picsumCredit,
		}, nil
	}

	p.mu.Lock()
	img := images[p.rng.Intn(len(images))]
	p.mu.Unlock()

	return &img, nil
}

// ResetCursor restarts sequential rotation from the first pool entry.
func (p *Pool) ResetCursor() {
	p.mu.Lock()
	p.cursor = 0
	p.mu.Unlock()
}

func (p *Pool) picsumEntries() []Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := make([]Candidate, 0, picsumPoolSize)
	for i := 0; i < picsumPoolSize; i++ {
		seed := p.rng.Intn(100000) + 1
		entries = append(entries, Candidate{
			URL:    fmt.Sprintf("%s?random=%d", picsumBase, seed),
			Source: "picsum",
			Credit: picsumCredit,
		})
	}
	return entries
}

func fromImage(img reddit.Image) Candidate {
	score := img.Score
	subreddit := img.Subreddit
	return Candidate{
		URL:       img.URL,
		Source:    "reddit",
		Credit:    img.Credit,
		Score:     &score,
		Subreddit: &subreddit,
	}
}

// applySelection reorders the pool in place: "highest" sorts by post score
// descending, "random" shuffles, anything else keeps fetch order.
func applySelection(candidates []Candidate, selectionType string, rng *rand.Rand) {
	switch selectionType {
	case "highest":
		slices.SortStableFunc(candidates, func(a, b Candidate) int {
			return scoreOf(b) - scoreOf(a)
		})
	case "random":
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}
}

func scoreOf(c Candidate) int {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

func dedupeByURL(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}
