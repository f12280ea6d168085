package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	tickInterval  = 30 * time.Second
	taskQueueSize = 64
)

type entry struct {
	stream    string
	refresher Refresher
	interval  time.Duration
	nextRun   time.Time
}

// Scheduler pre-warms stream caches on their refresh intervals with a small
// worker pool. Streams still refresh on demand through their own TTL
// caches; the scheduler only keeps the common case warm.
type Scheduler struct {
	workerCount int

	mu      sync.Mutex
	entries []*entry

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount <= 0 {
		workerCount = 2
	}

	return &Scheduler{
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, taskQueueSize),
	}
}

// Register adds a stream to the pre-warm rotation. The first run is due
// immediately.
func (s *Scheduler) Register(stream string, refresher Refresher, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &entry{
		stream:    stream,
		refresher: refresher,
		interval:  interval,
		nextRun:   time.Now(),
	})
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go s.loop()

	slog.Info("Scheduler started", "workers", s.workerCount, "streams", len(s.entries))
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.enqueueDue()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.enqueueDue()
		}
	}
}

func (s *Scheduler) enqueueDue() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if now.Before(e.nextRun) {
			continue
		}
		e.nextRun = now.Add(e.interval)

		task := NewRefreshTask(e.stream, e.refresher)
		select {
		case s.taskQueue <- task:
		default:
			slog.Warn("Task queue full, skipping refresh", "stream", e.stream)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case task := <-s.taskQueue:
			s.run(id, task)
		}
	}
}

func (s *Scheduler) run(workerID int, task TaskInterface) {
	task.Start()

	err := task.Execute(s.ctx)
	if err == nil {
		return
	}

	if task.CanRetry() {
		task.IncrementRetryCount()
		slog.Warn("Task failed, requeueing",
			"worker", workerID,
			"stream", task.GetStream(),
			"attempt", task.GetRetryCount(),
			"error", err)
		select {
		case s.taskQueue <- task:
		default:
		}
		return
	}

	slog.Error("Task failed permanently",
		"worker", workerID,
		"stream", task.GetStream(),
		"attempts", task.GetRetryCount(),
		"error", err)
}
