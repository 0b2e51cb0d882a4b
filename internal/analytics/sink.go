// Package analytics mirrors append-only analytics events out of the core.
//
// The repository remains the system of record; a Sink is a one-way copy for
// whatever wants the firehose. The default MemorySink keeps events in
// process. RedisSink appends to a Redis Stream so an external consumer can
// tail the feed; the core never requires Redis to function.
package analytics

import (
	"context"
	"sync"

	"github.com/atelier-labs/atelier/internal/domain"
)

// Sink receives a copy of every recorded analytics event.
type Sink interface {
	Record(ctx context.Context, ev domain.AnalyticsEvent) error
	Close() error
}

// MemorySink buffers events in memory. Safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []domain.AnalyticsEvent
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink { return &MemorySink{} }

// Record implements Sink.
func (s *MemorySink) Record(_ context.Context, ev domain.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of everything recorded so far.
func (s *MemorySink) Events() []domain.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AnalyticsEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Close implements Sink.
func (s *MemorySink) Close() error { return nil }
