// Package query implements the filter → sort → paginate pipeline shared by
// every list operation in the core.
//
// The pipeline operates on a snapshot slice taken from a store collection.
// Filters combine with logical AND; string filters are case-insensitive
// substring matches (Unicode case folding); tag filters test membership in
// any element; date-range filters test inclusive bounds. Sorting is stable:
// records with equal keys keep their original relative order. Pagination is
// offset-based with page and limit both 1-based and strictly positive.
package query

import "time"

// Direction orders a sort ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool { return d == Asc || d == Desc }

// Sort names a schema field and a direction.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Filters maps schema field names to filter values. Accepted value types per
// field kind:
//
//	String   string (case-insensitive substring)
//	Tags     string or []string (membership in any element)
//	Time     DateRange (inclusive bounds)
//	Bool     bool (equality)
//	Int      int or int64 (equality)
type Filters map[string]any

// DateRange bounds a time field inclusively. A nil side is unbounded.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Params carries the full list request.
type Params struct {
	Page    int
	Limit   int
	Filters Filters
	Sort    *Sort
}

// Page is the paginated response shape shared by every list operation.
type Page[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}
