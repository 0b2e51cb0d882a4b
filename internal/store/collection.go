package store

import (
	"github.com/atelier-labs/atelier/internal/domain"
)

// Collection is an ordered in-memory set of records of one entity type.
// T is the entity value type; PT is *T constrained to domain.Record so the
// collection can reach the embedded Meta.
//
// All methods must be called under the owning Repository's lock. Read
// methods return deep copies: slice and map fields are detached via
// CloneShared, so nothing a caller receives (or retains after Insert)
// shares backing storage with a stored record. Mutations go through Insert,
// Mutate, SoftDelete and Remove only.
type Collection[T any, PT interface {
	*T
	domain.Record
}] struct {
	name    string
	clock   domain.Clock
	seq     *domain.Sequence
	ids     domain.IDSource
	records []T
	byID    map[string]int
}

func newCollection[T any, PT interface {
	*T
	domain.Record
}](name string, clock domain.Clock, seq *domain.Sequence, ids domain.IDSource) *Collection[T, PT] {
	return &Collection[T, PT]{
		name:  name,
		clock: clock,
		seq:   seq,
		ids:   ids,
		byID:  make(map[string]int),
	}
}

// Name returns the collection's name, used in logs and SQL table names.
func (c *Collection[T, PT]) Name() string { return c.name }

// Insert assigns id, sequence number and timestamps to rec and appends it.
// Returns a copy of the stored record. Slice and map fields are detached on
// the way in and on the way out, so neither the caller's retained argument
// nor the returned copy can reach the stored record.
func (c *Collection[T, PT]) Insert(rec T) T {
	PT(&rec).CloneShared()
	m := PT(&rec).RecordMeta()
	m.ID = c.ids.NewID()
	m.Seq = c.seq.Next()
	now := c.clock.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.DeletedAt = nil

	c.byID[m.ID] = len(c.records)
	c.records = append(c.records, rec)
	out := rec
	PT(&out).CloneShared()
	return out
}

// copyAt returns a detached copy of the record at index i.
func (c *Collection[T, PT]) copyAt(i int) T {
	rec := c.records[i]
	PT(&rec).CloneShared()
	return rec
}

// Get returns a copy of the live record with the given id. Soft-deleted
// records are not found.
func (c *Collection[T, PT]) Get(id string) (T, bool) {
	var zero T
	i, ok := c.byID[id]
	if !ok {
		return zero, false
	}
	if PT(&c.records[i]).RecordMeta().Deleted() {
		return zero, false
	}
	return c.copyAt(i), true
}

// Mutate applies fn to the live record with the given id, bumps UpdatedAt,
// and returns a copy of the result. Returns false if the record does not
// exist or is soft-deleted. fn must not touch Meta.
func (c *Collection[T, PT]) Mutate(id string, fn func(PT)) (T, bool) {
	var zero T
	i, ok := c.byID[id]
	if !ok {
		return zero, false
	}
	p := PT(&c.records[i])
	if p.RecordMeta().Deleted() {
		return zero, false
	}
	fn(p)
	// fn may have assigned a caller-owned slice; detach it.
	p.CloneShared()
	p.RecordMeta().UpdatedAt = c.clock.Now()
	return c.copyAt(i), true
}

// SoftDelete stamps DeletedAt on the record, excluding it from all reads.
// Returns false for unknown or already-deleted ids.
func (c *Collection[T, PT]) SoftDelete(id string) bool {
	i, ok := c.byID[id]
	if !ok {
		return false
	}
	m := PT(&c.records[i]).RecordMeta()
	if m.Deleted() {
		return false
	}
	now := c.clock.Now()
	m.DeletedAt = &now
	return true
}

// Remove hard-deletes the record. Used by entities without a soft-delete
// contract (connections, dropdown options).
func (c *Collection[T, PT]) Remove(id string) bool {
	i, ok := c.byID[id]
	if !ok {
		return false
	}
	delete(c.byID, id)
	c.records = append(c.records[:i], c.records[i+1:]...)
	for id2, j := range c.byID {
		if j > i {
			c.byID[id2] = j - 1
		}
	}
	return true
}

// All returns copies of every live record in insertion order.
func (c *Collection[T, PT]) All() []T {
	out := make([]T, 0, len(c.records))
	for i := range c.records {
		if PT(&c.records[i]).RecordMeta().Deleted() {
			continue
		}
		out = append(out, c.copyAt(i))
	}
	return out
}

// Where returns copies of live records matching pred, in insertion order.
func (c *Collection[T, PT]) Where(pred func(*T) bool) []T {
	var out []T
	for i := range c.records {
		if PT(&c.records[i]).RecordMeta().Deleted() {
			continue
		}
		if pred(&c.records[i]) {
			out = append(out, c.copyAt(i))
		}
	}
	return out
}

// Find returns a copy of the first live record matching pred.
func (c *Collection[T, PT]) Find(pred func(*T) bool) (T, bool) {
	var zero T
	for i := range c.records {
		if PT(&c.records[i]).RecordMeta().Deleted() {
			continue
		}
		if pred(&c.records[i]) {
			return c.copyAt(i), true
		}
	}
	return zero, false
}

// Count returns the number of live records matching pred. A nil pred counts
// all live records.
func (c *Collection[T, PT]) Count(pred func(*T) bool) int {
	n := 0
	for i := range c.records {
		if PT(&c.records[i]).RecordMeta().Deleted() {
			continue
		}
		if pred == nil || pred(&c.records[i]) {
			n++
		}
	}
	return n
}
