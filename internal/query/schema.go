package query

import "time"

// Kind is the filter/sort behavior of a schema field.
type Kind int

const (
	// KindString fields filter by case-insensitive substring and sort
	// lexically.
	KindString Kind = iota
	// KindTags fields filter by any-element membership. Not sortable.
	KindTags
	// KindTime fields filter by inclusive DateRange and sort
	// chronologically.
	KindTime
	// KindBool fields filter by equality and sort false-before-true.
	KindBool
	// KindInt fields filter by equality and sort numerically.
	KindInt
)

// Field describes one filterable/sortable field of an entity. Exactly the
// accessor matching Kind must be set.
type Field[T any] struct {
	Kind   Kind
	String func(*T) string
	Tags   func(*T) []string
	Time   func(*T) time.Time
	Bool   func(*T) bool
	Int    func(*T) int64
}

// Schema declares the queryable surface of an entity type and its default
// sort, applied when a list request names no sort.
type Schema[T any] struct {
	Fields      map[string]Field[T]
	DefaultSort Sort
}

// StringField builds a KindString field from an accessor.
func StringField[T any](get func(*T) string) Field[T] {
	return Field[T]{Kind: KindString, String: get}
}

// TagsField builds a KindTags field from an accessor.
func TagsField[T any](get func(*T) []string) Field[T] {
	return Field[T]{Kind: KindTags, Tags: get}
}

// TimeField builds a KindTime field from an accessor.
func TimeField[T any](get func(*T) time.Time) Field[T] {
	return Field[T]{Kind: KindTime, Time: get}
}

// BoolField builds a KindBool field from an accessor.
func BoolField[T any](get func(*T) bool) Field[T] {
	return Field[T]{Kind: KindBool, Bool: get}
}

// IntField builds a KindInt field from an accessor.
func IntField[T any](get func(*T) int64) Field[T] {
	return Field[T]{Kind: KindInt, Int: get}
}
