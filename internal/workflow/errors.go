// Package workflow implements the four status state machines of the core:
// connection requests, moderation flags, approval submissions and support
// tickets.
//
// Each machine is a pure transition function over the entity's status field.
// Machines never touch the store; services call them inside a repository
// critical section so the status change and any side effect (review stamps,
// the approval flip on the base entity) land atomically.
package workflow

import (
	"errors"
	"fmt"
)

// TransitionErrorCode categorizes illegal transition attempts.
type TransitionErrorCode string

const (
	// ErrCodeTerminalState indicates a transition out of a terminal status.
	ErrCodeTerminalState TransitionErrorCode = "TERMINAL_STATE"

	// ErrCodeIllegalTransition indicates a from→to edge the machine does
	// not define (including ticket skips and regressions).
	ErrCodeIllegalTransition TransitionErrorCode = "ILLEGAL_TRANSITION"

	// ErrCodeUnknownStatus indicates a status outside the machine's closed
	// set. This is a programmer error surfaced as an error rather than a
	// panic so callers at the facade boundary stay recoverable.
	ErrCodeUnknownStatus TransitionErrorCode = "UNKNOWN_STATUS"
)

// TransitionError reports an illegal state machine transition.
type TransitionError struct {
	Code    TransitionErrorCode
	Machine string
	From    string
	To      string
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s: %s -> %s", e.Code, e.Machine, e.From, e.To)
}

// IsTerminal reports whether err is a transition attempted out of a terminal
// state.
func IsTerminal(err error) bool {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Code == ErrCodeTerminalState
	}
	return false
}

// IsIllegalTransition reports whether err is an undefined from→to edge.
func IsIllegalTransition(err error) bool {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Code == ErrCodeIllegalTransition
	}
	return false
}

func terminalErr(machine, from, to string) error {
	return &TransitionError{Code: ErrCodeTerminalState, Machine: machine, From: from, To: to}
}

func illegalErr(machine, from, to string) error {
	return &TransitionError{Code: ErrCodeIllegalTransition, Machine: machine, From: from, To: to}
}

func unknownErr(machine, from, to string) error {
	return &TransitionError{Code: ErrCodeUnknownStatus, Machine: machine, From: from, To: to}
}
