// Package testutil provides deterministic clock and id helpers for tests and
// the seeded dataset generator.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Epoch is the fixed start instant for deterministic clocks. Any value
// works; this one keeps golden files readable.
var Epoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

// SteppingClock returns a strictly increasing timestamp on every Now call:
// start, start+step, start+2*step, ... Deterministic and safe for concurrent
// use.
//
// Unlike the wall clock it never returns the same instant twice, so tests
// exercising timestamp ordering do not depend on timer resolution.
type SteppingClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewSteppingClock creates a clock starting at start, advancing by step per
// call.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{next: start, step: step}
}

// NewClock creates a SteppingClock at Epoch advancing one second per call.
func NewClock() *SteppingClock {
	return NewSteppingClock(Epoch, time.Second)
}

// Now implements domain.Clock.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// FrozenClock always returns the same instant.
type FrozenClock struct {
	At time.Time
}

// Now implements domain.Clock.
func (c FrozenClock) Now() time.Time { return c.At }

// SeqIDs issues deterministic ids derived from a label and a counter:
// v5 UUIDs over a fixed namespace, so two runs with the same label sequence
// produce identical ids.
type SeqIDs struct {
	mu    sync.Mutex
	label string
	n     int
}

// idNamespace scopes the v5 UUIDs issued by SeqIDs.
var idNamespace = uuid.MustParse("6f1cc250-21f1-46ff-b04f-f1be2f3e46b2")

// NewSeqIDs creates an id source namespaced by label.
func NewSeqIDs(label string) *SeqIDs {
	return &SeqIDs{label: label}
}

// NewID implements domain.IDSource.
func (s *SeqIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s-%d", s.label, s.n))).String()
}
