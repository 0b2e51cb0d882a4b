package domain

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock supplies wall-clock timestamps. Injectable so tests and the seeded
// generator can produce byte-identical datasets.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock, truncated to milliseconds so
// round-tripping through JSON or SQL keeps timestamps comparable.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// Sequence is a monotonic logical counter. Every record is stamped with the
// next value at insert, giving the core a total order independent of wall
// time.
//
// Safe for concurrent use, though the repository's single-writer locking
// means only one goroutine normally advances it.
type Sequence struct {
	n atomic.Int64
}

// NewSequence creates a sequence starting at 0; the first Next returns 1.
func NewSequence() *Sequence { return &Sequence{} }

// Next returns the next sequence number and advances the counter.
func (s *Sequence) Next() int64 { return s.n.Add(1) }

// Current returns the last issued sequence number without advancing.
func (s *Sequence) Current() int64 { return s.n.Load() }

// IDSource generates record identifiers.
type IDSource interface {
	NewID() string
}

// RandomIDs generates random v4 UUIDs. The production default.
type RandomIDs struct{}

// NewID implements IDSource.
func (RandomIDs) NewID() string { return uuid.NewString() }
