package rss

import (
	"bytes"
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"wallboard/app/fetch"
)

// Item is a normalized feed entry. Date is nil when the feed omitted a
// publication date or it could not be parsed.
type Item struct {
	Title       string
	Link        string
	Description string
	Date        *time.Time
}

type Adapter struct {
	client       *fetch.Client
	gofeedParser *gofeed.Parser
}

func NewAdapter(client *fetch.Client) *Adapter {
	return &Adapter{
		client:       client,
		gofeedParser: gofeed.NewParser(),
	}
}

// Fetch retrieves a feed document and normalizes its items. A malformed
// document fails with *fetch.ParseError; the caller decides whether other
// feeds in the same aggregation pass should continue.
func (a *Adapter) Fetch(ctx context.Context, url string) ([]Item, error) {
	data, err := a.client.Text(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	return a.Parse(data)
}

func (a *Adapter) Parse(data []byte) ([]Item, error) {
	feed, err := a.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &fetch.ParseError{Source: "feed document", Err: err}
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, normalizeItem(item))
	}

	return items, nil
}

func normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
	}

	if item.PublishedParsed != nil {
		normalized.Date = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		normalized.Date = item.UpdatedParsed
	}

	return normalized
}
