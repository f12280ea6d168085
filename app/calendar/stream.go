package calendar

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"wallboard/app/cache"
	"wallboard/app/config"
	"wallboard/app/fetch"
	"wallboard/app/ics"
	"wallboard/app/status"
)

const (
	StreamName   = "calendar"
	fatalMessage = "Calendar failed to load"

	ttl = 5 * time.Minute

	// Recurrence expansion horizon around now. Non-recurring events are
	// kept regardless, so the month view can still look further out.
	expandPast   = 31 * 24 * time.Hour
	expandFuture = 366 * 24 * time.Hour

	DefaultUpcomingDays = 15
)

// Stream caches the normalized event set from the configured ICS URL and
// serves the month and upcoming views over it. Each successful fetch
// replaces the cached set atomically.
type Stream struct {
	cfg    config.CalendarConfig
	client *fetch.Client
	parser *ics.Parser
	board  *status.Board
	cache  *cache.Cache[[]ics.Event]
}

func NewStream(cfg config.CalendarConfig, client *fetch.Client, board *status.Board) *Stream {
	s := &Stream{
		cfg:    cfg,
		client: client,
		parser: ics.NewParser(),
		board:  board,
	}
	s.cache = cache.New(StreamName, ttl, s.produce)
	return s
}

// Events returns the cached event set, refreshing it when stale. A refresh
// failure with no prior data raises the fatal signal; stale data keeps
// serving silently.
func (s *Stream) Events(ctx context.Context) ([]ics.Event, error) {
	events, err := s.cache.Get(ctx)
	if err != nil {
		s.board.Set(StreamName, fatalMessage)
		return nil, err
	}

	s.board.Clear(StreamName)
	return events, nil
}

func (s *Stream) Refresh(ctx context.Context) error {
	return s.cache.Refresh(ctx)
}

func (s *Stream) produce(ctx context.Context) ([]ics.Event, error) {
	if s.cfg.ICSURL == "" {
		return nil, &config.ConfigError{Field: "calendar.ics_url", Message: "no calendar URL configured"}
	}

	data, err := s.client.Text(ctx, s.cfg.ICSURL, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	events, err := s.parser.Run(data, now.Add(-expandPast), now.Add(expandFuture))
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(events, func(a, b ics.Event) int {
		return a.Start.Compare(b.Start)
	})

	slog.Info("Calendar refreshed", "events", len(events))
	return events, nil
}

// EventsForMonth returns cached events whose start falls within the given
// calendar month, by local date components.
func (s *Stream) EventsForMonth(ctx context.Context, year int, month time.Month) ([]ics.Event, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ics.Event, 0)
	for _, ev := range events {
		start := ev.Start.In(time.Local)
		if start.Year() == year && start.Month() == month {
			out = append(out, ev)
		}
	}
	return out, nil
}

// UpcomingEvents returns cached events still in progress or starting within
// the next `days` days.
func (s *Stream) UpcomingEvents(ctx context.Context, days int) ([]ics.Event, error) {
	if days <= 0 {
		days = DefaultUpcomingDays
	}

	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, days)

	out := make([]ics.Event, 0)
	for _, ev := range events {
		if !ev.End.Before(now) && !ev.Start.After(cutoff) {
			out = append(out, ev)
		}
	}
	return out, nil
}
