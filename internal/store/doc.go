// Package store provides the in-memory entity store backing every service
// facade.
//
// A Repository owns one Collection per entity type. Collections keep records
// in insertion order, assign generated ids, stamp timestamps and logical
// sequence numbers, and implement soft delete where the entity carries a
// DeletedAt field.
//
// # Locking model
//
// Collections do not lock themselves. The Repository is single-writer: one
// RWMutex guards all collections, and every facade operation runs entirely
// inside one View (read) or Update (write) critical section. This makes each
// read-modify-write sequence (engagement counters, the submission/entity
// approval flip, idempotent connection and thread creation) atomic by
// construction: no reader can observe the intermediate state, and no two
// writers can interleave.
//
// Cross-collection references (userId, postId, threadId) are by id only;
// nothing here resolves them. See the relindex package for derived lookups.
package store
