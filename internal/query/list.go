package query

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/atelier-labs/atelier/internal/domain"
)

// List runs the full pipeline over a snapshot of records.
//
// Validation is strict: page and limit must be >= 1, every filter key and the
// sort field must exist in the schema, and filter values must match their
// field's kind. Violations return a domain.ValidationError; the caller's
// snapshot is never partially consumed.
func List[T any](records []T, schema Schema[T], p Params) (Page[T], error) {
	var zero Page[T]

	if p.Page < 1 {
		return zero, domain.NewValidationError(domain.ErrCodeInvalidPage, "page", "must be >= 1, got %d", p.Page)
	}
	if p.Limit < 1 {
		return zero, domain.NewValidationError(domain.ErrCodeInvalidLimit, "limit", "must be >= 1, got %d", p.Limit)
	}

	filtered, err := applyFilters(records, schema, p.Filters)
	if err != nil {
		return zero, err
	}

	srt := schema.DefaultSort
	if p.Sort != nil {
		srt = *p.Sort
	}
	if err := sortRecords(filtered, schema, srt); err != nil {
		return zero, err
	}

	return paginate(filtered, p.Page, p.Limit), nil
}

// applyFilters returns the records matching every filter (logical AND).
func applyFilters[T any](records []T, schema Schema[T], filters Filters) ([]T, error) {
	preds := make([]func(*T) bool, 0, len(filters))

	// Deterministic key order so the first validation error is stable.
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, ok := schema.Fields[key]
		if !ok {
			return nil, domain.NewValidationError(domain.ErrCodeUnknownField, key, "no such filter field")
		}
		pred, err := predicate(key, field, filters[key])
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}

	out := make([]T, 0, len(records))
	for i := range records {
		keep := true
		for _, pred := range preds {
			if !pred(&records[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, records[i])
		}
	}
	return out, nil
}

// predicate builds the match function for one (field, value) pair.
func predicate[T any](key string, field Field[T], value any) (func(*T) bool, error) {
	switch field.Kind {
	case KindString:
		want, ok := value.(string)
		if !ok {
			return nil, badValue(key, "string")
		}
		return func(rec *T) bool {
			return containsFold(field.String(rec), want)
		}, nil

	case KindTags:
		var want []string
		switch v := value.(type) {
		case string:
			want = []string{v}
		case []string:
			want = v
		default:
			return nil, badValue(key, "string or []string")
		}
		return func(rec *T) bool {
			tags := field.Tags(rec)
			for _, w := range want {
				for _, tag := range tags {
					if equalFold(tag, w) {
						return true
					}
				}
			}
			return false
		}, nil

	case KindTime:
		rng, ok := value.(DateRange)
		if !ok {
			return nil, badValue(key, "query.DateRange")
		}
		return func(rec *T) bool {
			t := field.Time(rec)
			if rng.From != nil && t.Before(*rng.From) {
				return false
			}
			if rng.To != nil && t.After(*rng.To) {
				return false
			}
			return true
		}, nil

	case KindBool:
		want, ok := value.(bool)
		if !ok {
			return nil, badValue(key, "bool")
		}
		return func(rec *T) bool { return field.Bool(rec) == want }, nil

	case KindInt:
		var want int64
		switch v := value.(type) {
		case int:
			want = int64(v)
		case int64:
			want = v
		default:
			return nil, badValue(key, "int")
		}
		return func(rec *T) bool { return field.Int(rec) == want }, nil
	}

	return nil, badValue(key, "supported kind")
}

func badValue(key, want string) error {
	return domain.NewValidationError(domain.ErrCodeBadFilterValue, key, "filter value must be %s", want)
}

// sortRecords stable-sorts in place on the named field. Equal keys keep
// their original relative order.
func sortRecords[T any](records []T, schema Schema[T], srt Sort) error {
	if srt.Field == "" {
		return nil
	}
	if !srt.Direction.Valid() {
		return domain.NewValidationError(domain.ErrCodeBadFilterValue, "sort.direction", "must be asc or desc, got %q", srt.Direction)
	}
	field, ok := schema.Fields[srt.Field]
	if !ok {
		return domain.NewValidationError(domain.ErrCodeUnknownField, srt.Field, "no such sort field")
	}
	if field.Kind == KindTags {
		return domain.NewValidationError(domain.ErrCodeBadFilterValue, srt.Field, "tag fields are not sortable")
	}

	less := lessFunc(field)
	if srt.Direction == Desc {
		inner := less
		less = func(a, b *T) bool { return inner(b, a) }
	}
	sort.SliceStable(records, func(i, j int) bool {
		return less(&records[i], &records[j])
	})
	return nil
}

func lessFunc[T any](field Field[T]) func(a, b *T) bool {
	switch field.Kind {
	case KindString:
		return func(a, b *T) bool { return field.String(a) < field.String(b) }
	case KindTime:
		return func(a, b *T) bool { return field.Time(a).Before(field.Time(b)) }
	case KindBool:
		return func(a, b *T) bool { return !field.Bool(a) && field.Bool(b) }
	case KindInt:
		return func(a, b *T) bool { return field.Int(a) < field.Int(b) }
	}
	// Unreachable: sortRecords rejects KindTags before getting here.
	return func(a, b *T) bool { return false }
}

// paginate slices out one page. Pages past the end of the data return an
// empty Data slice, never an error.
func paginate[T any](records []T, page, limit int) Page[T] {
	total := len(records)
	offset := (page - 1) * limit

	data := []T{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		data = records[offset:end]
	}

	return Page[T]{
		Data:    data,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasNext: offset+limit < total,
		HasPrev: offset > 0,
	}
}

// containsFold reports whether s contains sub under Unicode case folding.
func containsFold(s, sub string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(sub))
}

// equalFold reports whether two strings are equal under Unicode case folding.
func equalFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
