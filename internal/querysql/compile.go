// Package querysql compiles the core's list parameters to parameterized SQL.
//
// The in-memory pipeline in the query package is the reference behavior; this
// compiler exists to pin down the contract a database-backed replacement must
// satisfy. Tests seed an in-memory SQLite database with the same snapshot the
// in-memory engine sees and assert both paths return identical pages.
//
// Values are always parameterized, never interpolated. Every query carries a
// deterministic ORDER BY: the requested sort field plus seq ASC as
// tiebreaker, which mirrors the in-memory engine's stable sort over
// seq-ordered snapshots.
//
// Case folding is the one known divergence from the in-memory engine.
// SQLite's built-in lower() folds ASCII only, while the in-memory engine
// uses Unicode case folding, so string filters agree on ASCII data but may
// differ on non-ASCII input such as "Straße". A replacement backed by a real
// database would load ICU or store case-folded shadow columns to close the
// gap.
package querysql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
)

// Column declares how one schema field maps to a SQL column.
//
// Conventions for the generated schema:
//   - KindString, KindInt, KindBool: plain columns (bools stored 0/1)
//   - KindTime: TEXT column holding RFC 3339 UTC (lexical order == time order)
//   - KindTags: TEXT column holding ",tag1,tag2," (lowercased, comma-fenced,
//     so membership is a single LIKE)
type Column struct {
	Name string
	Kind query.Kind
}

// Compiled is the SQL form of one list request.
type Compiled struct {
	SelectSQL  string
	SelectArgs []any
	CountSQL   string
	CountArgs  []any
}

// Compile translates (table, columns, params, defaultSort) to SQL. It
// validates params exactly like query.List: page/limit >= 1, known fields
// only, value types matching field kinds.
func Compile(table string, columns map[string]Column, p query.Params, defaultSort query.Sort) (Compiled, error) {
	var zero Compiled

	if p.Page < 1 {
		return zero, domain.NewValidationError(domain.ErrCodeInvalidPage, "page", "must be >= 1, got %d", p.Page)
	}
	if p.Limit < 1 {
		return zero, domain.NewValidationError(domain.ErrCodeInvalidLimit, "limit", "must be >= 1, got %d", p.Limit)
	}

	where, args, err := compileFilters(columns, p.Filters)
	if err != nil {
		return zero, err
	}

	srt := defaultSort
	if p.Sort != nil {
		srt = *p.Sort
	}
	orderBy, err := compileSort(columns, srt)
	if err != nil {
		return zero, err
	}

	offset := (p.Page - 1) * p.Limit

	selectSQL := fmt.Sprintf("SELECT id FROM %s%s%s LIMIT ? OFFSET ?", table, where, orderBy)
	selectArgs := append(append([]any{}, args...), p.Limit, offset)

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where)
	countArgs := append([]any{}, args...)

	return Compiled{
		SelectSQL:  selectSQL,
		SelectArgs: selectArgs,
		CountSQL:   countSQL,
		CountArgs:  countArgs,
	}, nil
}

// compileFilters renders the WHERE clause. Filter keys are sorted so the
// generated SQL is deterministic.
func compileFilters(columns map[string]Column, filters query.Filters) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conds []string
	var args []any
	for _, key := range keys {
		col, ok := columns[key]
		if !ok {
			return "", nil, domain.NewValidationError(domain.ErrCodeUnknownField, key, "no such filter field")
		}
		cond, condArgs, err := compileFilter(key, col, filters[key])
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}

	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func compileFilter(key string, col Column, value any) (string, []any, error) {
	switch col.Kind {
	case query.KindString:
		want, ok := value.(string)
		if !ok {
			return "", nil, badValue(key, "string")
		}
		// instr avoids LIKE wildcard escaping in user input.
		return fmt.Sprintf("instr(lower(%s), lower(?)) > 0", col.Name), []any{want}, nil

	case query.KindTags:
		var want []string
		switch v := value.(type) {
		case string:
			want = []string{v}
		case []string:
			want = v
		default:
			return "", nil, badValue(key, "string or []string")
		}
		var ors []string
		var args []any
		for _, tag := range want {
			ors = append(ors, fmt.Sprintf("instr(%s, ','||lower(?)||',') > 0", col.Name))
			args = append(args, tag)
		}
		return "(" + strings.Join(ors, " OR ") + ")", args, nil

	case query.KindTime:
		rng, ok := value.(query.DateRange)
		if !ok {
			return "", nil, badValue(key, "query.DateRange")
		}
		var conds []string
		var args []any
		if rng.From != nil {
			conds = append(conds, fmt.Sprintf("%s >= ?", col.Name))
			args = append(args, TimeValue(*rng.From))
		}
		if rng.To != nil {
			conds = append(conds, fmt.Sprintf("%s <= ?", col.Name))
			args = append(args, TimeValue(*rng.To))
		}
		if len(conds) == 0 {
			// Unbounded range matches everything.
			return "1 = 1", nil, nil
		}
		return "(" + strings.Join(conds, " AND ") + ")", args, nil

	case query.KindBool:
		want, ok := value.(bool)
		if !ok {
			return "", nil, badValue(key, "bool")
		}
		n := 0
		if want {
			n = 1
		}
		return fmt.Sprintf("%s = ?", col.Name), []any{n}, nil

	case query.KindInt:
		var want int64
		switch v := value.(type) {
		case int:
			want = int64(v)
		case int64:
			want = v
		default:
			return "", nil, badValue(key, "int")
		}
		return fmt.Sprintf("%s = ?", col.Name), []any{want}, nil
	}

	return "", nil, badValue(key, "supported kind")
}

// compileSort renders the ORDER BY clause with the seq tiebreaker.
func compileSort(columns map[string]Column, srt query.Sort) (string, error) {
	if srt.Field == "" {
		return " ORDER BY seq ASC", nil
	}
	if !srt.Direction.Valid() {
		return "", domain.NewValidationError(domain.ErrCodeBadFilterValue, "sort.direction", "must be asc or desc, got %q", srt.Direction)
	}
	col, ok := columns[srt.Field]
	if !ok {
		return "", domain.NewValidationError(domain.ErrCodeUnknownField, srt.Field, "no such sort field")
	}
	if col.Kind == query.KindTags {
		return "", domain.NewValidationError(domain.ErrCodeBadFilterValue, srt.Field, "tag fields are not sortable")
	}
	dir := "ASC"
	if srt.Direction == query.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, seq ASC", col.Name, dir), nil
}

func badValue(key, want string) error {
	return domain.NewValidationError(domain.ErrCodeBadFilterValue, key, "filter value must be %s", want)
}
