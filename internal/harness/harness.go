// Package harness runs YAML conformance scenarios against the service
// facades.
//
// Each scenario executes in a fresh in-memory repository with a stepping
// clock and sequential id source, so the full trace of a run is
// deterministic and can be compared against a golden file. Steps invoke
// real facade operations; nothing is stubbed, so a scenario that asserts
// an idempotent re-send returns the original connection is exercising the
// actual facade code path.
package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/services"
	"github.com/atelier-labs/atelier/internal/store"
	"github.com/atelier-labs/atelier/internal/testutil"
	"github.com/atelier-labs/atelier/internal/workflow"
)

// Harness executes one scenario. Aliases saved by earlier steps live for
// the duration of the run.
type Harness struct {
	repo    *store.Repository
	svc     *services.Services
	aliases map[string]map[string]any
}

// Run executes a scenario in a fresh repository and returns the result.
// An error return means the scenario itself could not run (bad op name,
// unresolvable reference); expectation failures land in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	repo := store.NewRepository(
		store.WithClock(testutil.NewClock()),
		store.WithIDSource(testutil.NewSeqIDs(scenario.Name)),
	)
	h := &Harness{
		repo:    repo,
		svc:     services.New(repo),
		aliases: make(map[string]map[string]any),
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := h.runStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	h.runChecks(scenario.Checks, result)
	return result, nil
}

func (h *Harness) runStep(ctx context.Context, index int, step Step, result *Result) error {
	args, err := h.resolveMap(step.Args)
	if err != nil {
		return err
	}

	record, found, opErr := dispatch(ctx, h.svc, step.Op, args)
	if opErr != nil && !domain.IsValidation(opErr) && !isTransition(opErr) {
		return opErr
	}

	event := TraceEvent{Step: index, Op: step.Op, Args: args}
	switch {
	case opErr != nil:
		event.Outcome = OutcomeError
		event.Result = map[string]any{"code": errorCode(opErr)}
	case !found:
		event.Outcome = OutcomeAbsent
	default:
		event.Outcome = OutcomeOK
		event.Result = record
	}
	result.Trace = append(result.Trace, event)

	recordMap, _ := record.(map[string]any)
	if step.Save != "" && recordMap != nil {
		h.aliases[step.Save] = recordMap
	}

	h.checkExpect(index, step, opErr, found, recordMap, result)
	return nil
}

func (h *Harness) checkExpect(index int, step Step, opErr error, found bool, record map[string]any, result *Result) {
	exp := step.Expect
	if exp == nil {
		if opErr != nil {
			result.AddError("step %d (%s): unexpected error %v", index, step.Op, opErr)
		}
		return
	}

	if exp.Error != "" {
		if opErr == nil {
			result.AddError("step %d (%s): expected error %s, got success", index, step.Op, exp.Error)
		} else if code := errorCode(opErr); code != exp.Error {
			result.AddError("step %d (%s): expected error %s, got %s", index, step.Op, exp.Error, code)
		}
		return
	}
	if opErr != nil {
		result.AddError("step %d (%s): unexpected error %v", index, step.Op, opErr)
		return
	}

	if exp.Absent {
		if found {
			result.AddError("step %d (%s): expected absent, got a record", index, step.Op)
		}
		return
	}
	if !found {
		result.AddError("step %d (%s): expected a record, got absent", index, step.Op)
		return
	}

	if len(exp.Result) > 0 {
		want, err := h.resolveMap(exp.Result)
		if err != nil {
			result.AddError("step %d (%s): %v", index, step.Op, err)
			return
		}
		for field, wantVal := range want {
			got, ok := record[field]
			if !ok {
				result.AddError("step %d (%s): result has no field %q", index, step.Op, field)
				continue
			}
			if !looseEqual(got, wantVal) {
				result.AddError("step %d (%s): field %q = %v, want %v", index, step.Op, field, got, wantVal)
			}
		}
	}
}

func (h *Harness) runChecks(checks []Check, result *Result) {
	for i, c := range checks {
		rows, err := h.stateRows(c.Collection)
		if err != nil {
			result.AddError("check %d: %v", i, err)
			continue
		}
		where, err := h.resolveMap(c.Where)
		if err != nil {
			result.AddError("check %d: %v", i, err)
			continue
		}

		var matched []map[string]any
		for _, row := range rows {
			if rowMatches(row, where) {
				matched = append(matched, row)
			}
		}

		switch c.Type {
		case CheckCount:
			if len(matched) != c.Count {
				result.AddError("check %d: %s count = %d, want %d", i, c.Collection, len(matched), c.Count)
			}
		case CheckRecord:
			if len(matched) != 1 {
				result.AddError("check %d: %s matched %d rows, want exactly 1", i, c.Collection, len(matched))
				continue
			}
			want, err := h.resolveMap(c.Expect)
			if err != nil {
				result.AddError("check %d: %v", i, err)
				continue
			}
			for field, wantVal := range want {
				got, ok := matched[0][field]
				if !ok {
					result.AddError("check %d: %s row has no field %q", i, c.Collection, field)
					continue
				}
				if !looseEqual(got, wantVal) {
					result.AddError("check %d: %s field %q = %v, want %v", i, c.Collection, field, got, wantVal)
				}
			}
		}
	}
}

// stateRows snapshots one collection as JSON maps, taken under the read
// lock.
func (h *Harness) stateRows(collection string) ([]map[string]any, error) {
	var raw any
	h.repo.View(func() {
		switch collection {
		case "users":
			raw = h.repo.Users.All()
		case "profiles":
			raw = h.repo.Profiles.All()
		case "posts":
			raw = h.repo.Posts.All()
		case "postLikes":
			raw = h.repo.PostLikes.All()
		case "postComments":
			raw = h.repo.PostComments.All()
		case "postFlags":
			raw = h.repo.PostFlags.All()
		case "profileFlags":
			raw = h.repo.ProfileFlags.All()
		case "connections":
			raw = h.repo.Connections.All()
		case "threads":
			raw = h.repo.Threads.All()
		case "messages":
			raw = h.repo.Messages.All()
		case "resources":
			raw = h.repo.Resources.All()
		case "resourceSubmissions":
			raw = h.repo.ResourceSubs.All()
		case "listings":
			raw = h.repo.Listings.All()
		case "listingSubmissions":
			raw = h.repo.ListingSubs.All()
		case "events":
			raw = h.repo.Events.All()
		case "tickets":
			raw = h.repo.Tickets.All()
		case "options":
			raw = h.repo.DropdownOptions.All()
		case "analytics":
			raw = h.repo.AnalyticsEvents.All()
		}
	})
	if raw == nil {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// resolveMap resolves "$alias.field" references in a copy of m.
func (h *Harness) resolveMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		rv, err := h.resolveValue(v)
		if err != nil {
			return nil, fmt.Errorf("arg %q: %w", k, err)
		}
		out[k] = rv
	}
	return out, nil
}

func (h *Harness) resolveValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		if !strings.HasPrefix(val, "$") {
			return val, nil
		}
		alias, field, ok := strings.Cut(val[1:], ".")
		if !ok {
			return nil, fmt.Errorf("bad reference %q (want $alias.field)", val)
		}
		saved, ok := h.aliases[alias]
		if !ok {
			return nil, fmt.Errorf("reference %q: nothing saved as %q", val, alias)
		}
		fieldVal, ok := saved[field]
		if !ok {
			return nil, fmt.Errorf("reference %q: saved record has no field %q", val, field)
		}
		return fieldVal, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			rv, err := h.resolveValue(elem)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	case map[string]any:
		return h.resolveMap(val)
	default:
		return v, nil
	}
}

// rowMatches reports whether every where field equals the row's value.
func rowMatches(row, where map[string]any) bool {
	for field, want := range where {
		got, ok := row[field]
		if !ok || !looseEqual(got, want) {
			return false
		}
	}
	return true
}

// looseEqual compares values across the JSON/YAML numeric divide: YAML
// parses 3 as int, JSON round-trips it as float64.
func looseEqual(got, want any) bool {
	if gn, ok := asFloat(got); ok {
		if wn, ok := asFloat(want); ok {
			return gn == wn
		}
		return false
	}
	return fmt.Sprintf("%v", got) == fmt.Sprintf("%v", want)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func isTransition(err error) bool {
	var te *workflow.TransitionError
	return errors.As(err, &te)
}

// errorCode extracts the stable code from a validation or transition error.
func errorCode(err error) string {
	if code := domain.ValidationCodeOf(err); code != "" {
		return string(code)
	}
	var te *workflow.TransitionError
	if errors.As(err, &te) {
		return string(te.Code)
	}
	return err.Error()
}
