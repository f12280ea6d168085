package status

import (
	"log/slog"
	"sync"
)

// Signal is a fatal-state notification: a data stream has no usable data at
// all (Fatal true), or recovered (Fatal false).
type Signal struct {
	Stream  string
	Message string
	Fatal   bool
}

// Board holds the process-wide fatal-state message. Multiple streams may be
// failing at once but only the most recently set message is held;
// last-writer-wins, no stacking. A stream clears the message only while it
// still owns it.
type Board struct {
	mu      sync.Mutex
	stream  string
	message string
	set     bool

	watchers []chan Signal
}

func NewBoard() *Board {
	return &Board{}
}

// Set raises the fatal-state message on behalf of a stream, replacing
// whatever message is currently held.
func (b *Board) Set(stream, message string) {
	b.mu.Lock()
	b.stream = stream
	b.message = message
	b.set = true
	b.mu.Unlock()

	slog.Warn("Fatal state raised", "stream", stream, "message", message)
	b.notify(Signal{Stream: stream, Message: message, Fatal: true})
}

// Clear removes the fatal-state message, but only when the currently held
// message belongs to the given stream. A stream recovering must not clear
// another stream's failure.
func (b *Board) Clear(stream string) {
	b.mu.Lock()
	if !b.set || b.stream != stream {
		b.mu.Unlock()
		return
	}
	b.stream = ""
	b.message = ""
	b.set = false
	b.mu.Unlock()

	slog.Info("Fatal state cleared", "stream", stream)
	b.notify(Signal{Stream: stream, Fatal: false})
}

// Message returns the currently held fatal message, if any.
func (b *Board) Message() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message, b.set
}

// Watch returns a channel receiving fatal-state transitions. Sends are
// non-blocking: a slow consumer misses intermediate signals but can always
// read the current state via Message.
func (b *Board) Watch() <-chan Signal {
	ch := make(chan Signal, 8)
	b.mu.Lock()
	b.watchers = append(b.watchers, ch)
	b.mu.Unlock()
	return ch
}

func (b *Board) notify(sig Signal) {
	b.mu.Lock()
	watchers := b.watchers
	b.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- sig:
		default:
		}
	}
}
