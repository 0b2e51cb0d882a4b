package harness

import "fmt"

// TraceEvent records one executed step and its outcome.
type TraceEvent struct {
	Step    int            `json:"step"`
	Op      string         `json:"op"`
	Args    map[string]any `json:"args,omitempty"`
	Outcome string         `json:"outcome"`
	Result  any            `json:"result,omitempty"`
}

// Step outcome values.
const (
	OutcomeOK     = "ok"
	OutcomeAbsent = "absent"
	OutcomeError  = "error"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and check held.
	Pass bool `json:"pass"`

	// Trace lists every executed step in order with its resolved args and
	// outcome. The trace is deterministic: ids come from a sequential id
	// source and timestamps from a stepping clock.
	Trace []TraceEvent `json:"trace"`

	// Errors holds expectation and check failures. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates an empty passing result.
func NewResult() *Result {
	return &Result{Pass: true, Trace: []TraceEvent{}}
}

// AddError records a failure and marks the result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
