// Package domain defines the entity types, enums and record primitives shared
// by every layer of the atelier core.
//
// All entities embed Meta, which carries the generated id, creation and update
// timestamps, an optional soft-delete timestamp, and a logical sequence
// number. The sequence number is the deterministic tiebreaker for every
// ordering decision in the core: two records created in the same wall-clock
// instant still have a total order.
//
// Enums are closed string types. Each has a Valid method; constructing an
// entity with an invalid enum value is a programmer error, not a runtime
// condition the core tolerates.
package domain
