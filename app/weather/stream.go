package weather

import (
	"context"
	"time"

	"wallboard/app/cache"
	"wallboard/app/status"
)

const (
	StreamName   = "weather"
	fatalMessage = "Weather failed to load"

	ttl = 15 * time.Minute
)

// Stream caches weather snapshots and wires the fatal signal: a failed
// refresh with no prior snapshot raises it, a successful one clears it.
type Stream struct {
	board *status.Board
	cache *cache.Cache[*Snapshot]
}

func NewStream(adapter *Adapter, board *status.Board) *Stream {
	return &Stream{
		board: board,
		cache: cache.New(StreamName, ttl, adapter.Snapshot),
	}
}

func (s *Stream) Snapshot(ctx context.Context) (*Snapshot, error) {
	snapshot, err := s.cache.Get(ctx)
	if err != nil {
		s.board.Set(StreamName, fatalMessage)
		return nil, err
	}

	s.board.Clear(StreamName)
	return snapshot, nil
}

func (s *Stream) Refresh(ctx context.Context) error {
	return s.cache.Refresh(ctx)
}
