package domain

import "time"

// Meta carries the fields the store assigns to every record: generated id,
// logical sequence number, and timestamps. Entities embed it by value.
//
// Seq is assigned from a monotonic counter at insert and never changes. Every
// ordering in the core that could tie on wall-clock time (message order,
// equal sort keys in SQL) falls back to Seq so results are deterministic.
type Meta struct {
	ID        string     `json:"id"`
	Seq       int64      `json:"seq"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// RecordMeta exposes the embedded Meta for the store's generic code.
func (m *Meta) RecordMeta() *Meta { return m }

// Deleted reports whether the record has been soft-deleted. Soft-deleted
// records are excluded from every read path.
func (m *Meta) Deleted() bool { return m.DeletedAt != nil }

// CloneShared replaces slice and map fields with copies. The Meta default is
// a no-op; entities carrying slices or maps override it so that a record
// crossing the store boundary shares no backing storage with the stored one.
func (m *Meta) CloneShared() {}

// Record is implemented by every entity via the embedded Meta.
type Record interface {
	RecordMeta() *Meta
	CloneShared()
}
