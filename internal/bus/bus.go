// Package bus carries typed messages between the background coordinator
// and the overlay presenter, which run in separate goroutines. Delivery is
// fire-and-forget: a message nobody can take is dropped and logged, never
// retried and never surfaced to the sender.
package bus

import (
	"log/slog"
	"sync"
)

// Message is the closed set of envelopes exchanged over the bus.
type Message interface {
	isMessage()
}

// ShowError asks the presenter to display an error state.
type ShowError struct {
	Message string
}

// ShowSummary carries the cumulative summary text rendered so far. The
// presenter replaces its whole content region with it on every update.
type ShowSummary struct {
	Summary string
}

// ContentReady signals that a presenter is attached and listening.
type ContentReady struct{}

// Ping checks the connection before streaming starts.
type Ping struct {
	Message string
}

func (ShowError) isMessage()    {}
func (ShowSummary) isMessage()  {}
func (ContentReady) isMessage() {}
func (Ping) isMessage()         {}

// Bus is a buffered one-way channel with non-blocking publish.
type Bus struct {
	mu     sync.Mutex
	ch     chan Message
	closed bool
	logger *slog.Logger
}

// New creates a bus with the given buffer capacity.
func New(buffer int, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		ch:     make(chan Message, buffer),
		logger: logger,
	}
}

// Publish delivers msg if there is room, otherwise drops it with a log
// line. It never blocks the publishing pipeline.
func (b *Bus) Publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.logger.Warn("dropping message on closed bus", "type", typeName(msg))
		return
	}

	select {
	case b.ch <- msg:
	default:
		b.logger.Warn("dropping message, subscriber not keeping up", "type", typeName(msg))
	}
}

// Messages returns the receive side of the bus. It is closed by Close.
func (b *Bus) Messages() <-chan Message {
	return b.ch
}

// Close ends delivery; subsequent publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.ch)
}

func typeName(msg Message) string {
	switch msg.(type) {
	case ShowError:
		return "show-error"
	case ShowSummary:
		return "show-summary"
	case ContentReady:
		return "content-script-ready"
	case Ping:
		return "ping"
	default:
		return "unknown"
	}
}
