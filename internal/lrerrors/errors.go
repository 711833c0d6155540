// Package lrerrors defines the typed error taxonomy the core surfaces to
// callers (spec §7). The core never recovers from these itself; it attaches
// enough context for a caller to do so at a higher layer.
package lrerrors

import (
	"fmt"

	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
)

// GrammarShapeError reports a malformed production: an empty left-hand
// side, or a left-hand side starting with '@' other than the reserved
// augmented start symbol. Raised by the builder at ingestion.
type GrammarShapeError struct {
	LHS    string
	Reason string
}

func (e *GrammarShapeError) Error() string {
	if e.LHS == "" {
		return fmt.Sprintf("malformed grammar: %s", e.Reason)
	}
	return fmt.Sprintf("malformed grammar: production with lhs %q: %s", e.LHS, e.Reason)
}

// NewGrammarShapeError constructs a GrammarShapeError for production lhs.
func NewGrammarShapeError(lhs, reason string) *GrammarShapeError {
	return &GrammarShapeError{LHS: lhs, Reason: reason}
}

// ConflictKind distinguishes the two conflict shapes the builder can hand a
// ConflictPolicy (spec §4.6).
type ConflictKind int

const (
	ShiftReduce ConflictKind = iota
	MultiReduce
)

func (k ConflictKind) String() string {
	if k == MultiReduce {
		return "reduce/reduce"
	}
	return "shift/reduce"
}

// ConflictUnresolved reports that a ConflictPolicy declined to pick a
// resolution for a conflict the builder encountered. Raised by the builder.
type ConflictUnresolved struct {
	Kind       ConflictKind
	StateIndex int
	Symbol     string
	Reason     string
}

func (e *ConflictUnresolved) Error() string {
	return fmt.Sprintf("unresolved %s conflict in state %d on symbol %q: %s", e.Kind, e.StateIndex, e.Symbol, e.Reason)
}

// NewConflictUnresolved constructs a ConflictUnresolved error.
func NewConflictUnresolved(kind ConflictKind, stateIndex int, symbol, reason string) *ConflictUnresolved {
	return &ConflictUnresolved{Kind: kind, StateIndex: stateIndex, Symbol: symbol, Reason: reason}
}

// ParseSyntaxError reports that the driver hit an Error cell: state s has no
// action defined for the current lookahead symbol. It carries the offending
// ParseUnit and the state the driver was in, per spec §4.10.
type ParseSyntaxError struct {
	Offending  lrtypes.ParseUnit
	StateIndex int
	Expected   []string
}

func (e *ParseSyntaxError) Error() string {
	where := e.Offending.Position.String()
	if len(e.Expected) == 0 {
		return fmt.Sprintf("syntax error at %s: unexpected %q in state %d", where, e.Offending.Name, e.StateIndex)
	}
	return fmt.Sprintf("syntax error at %s: unexpected %q in state %d; expected one of %v", where, e.Offending.Name, e.StateIndex, e.Expected)
}

// NewParseSyntaxError constructs a ParseSyntaxError for the offending unit.
func NewParseSyntaxError(offending lrtypes.ParseUnit, stateIndex int, expected []string) *ParseSyntaxError {
	return &ParseSyntaxError{Offending: offending, StateIndex: stateIndex, Expected: expected}
}

// CallbackFailure marks an error as having originated from a user-supplied
// semantic Callback. Per spec §7 it is "propagated, not wrapped": Error()
// returns the cause's message unchanged, and Unwrap exposes the cause so
// callers can still use errors.As/errors.Is to recognize it as a callback
// failure without the message gaining a prefix the caller didn't write.
type CallbackFailure struct {
	Cause     error
	Symbol    string
	ChildName string
}

func (e *CallbackFailure) Error() string {
	return e.Cause.Error()
}

func (e *CallbackFailure) Unwrap() error {
	return e.Cause
}

// NewCallbackFailure wraps cause as a CallbackFailure for the production
// reducing to symbol.
func NewCallbackFailure(symbol string, cause error) *CallbackFailure {
	return &CallbackFailure{Cause: cause, Symbol: symbol}
}
