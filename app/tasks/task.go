package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const DefaultMaxRetries = 3

// Refresher is a data stream whose cache can be rebuilt ahead of demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetStream() string
	GetRetryCount() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID         string
	Stream     string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func NewTask(stream string) Task {
	uniqueID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000))

	return Task{
		ID:         uniqueID,
		Stream:     stream,
		MaxRetries: DefaultMaxRetries,
	}
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetStream() string {
	return t.Stream
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}
