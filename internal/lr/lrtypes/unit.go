// Package lrtypes holds the small value types shared between the grammar,
// closure, automaton, and driver packages, kept separate so that none of
// them has to import the others just to mention a ParseUnit or a Callback.
package lrtypes

import (
	"fmt"
	"strings"
)

// Position is the (line, column) a ParseUnit originated at in source text.
// An EOF unit, or a unit reduced from an empty right-hand side, uses
// (-1, -1); any other reduced unit takes its first child's position.
type Position struct {
	Line int
	Col  int
}

// String renders the position as "line:col", or "-" for the synthetic
// (-1, -1) position.
func (p Position) String() string {
	if p.Line < 0 || p.Col < 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// ParseUnit is a node of the parse tree: either a terminal handed in by the
// lexer collaborator (Children is empty) or a nonterminal produced by a
// reduction (Children holds the popped right-hand-side units in source
// order). Value holds whatever the production's semantic Callback returned
// for a nonterminal; for a terminal it is nil unless the caller populates it
// before feeding the token to the driver. Property is a second, independent
// slot a semantic Callback may use for bookkeeping that should not be
// confused with the unit's primary Value (e.g. a type annotation computed
// during a later pass).
type ParseUnit struct {
	Name     string
	Children []ParseUnit
	Position Position
	Value    any
	Property any
}

// IsTerminal returns whether this unit has no children, i.e. it was shifted
// from the token stream rather than produced by a reduction.
func (u ParseUnit) IsTerminal() bool {
	return len(u.Children) == 0
}

// String renders a parse tree for debugging and test comparisons, one node
// per line with ASCII branch connectors.
func (u ParseUnit) String() string {
	var sb strings.Builder
	u.writeIndented(&sb, "", "")
	return sb.String()
}

func (u ParseUnit) writeIndented(sb *strings.Builder, firstPrefix, contPrefix string) {
	sb.WriteString(firstPrefix)
	if u.IsTerminal() {
		fmt.Fprintf(sb, "(TERM %q)", u.Name)
	} else {
		fmt.Fprintf(sb, "( %s )", u.Name)
	}

	for i, child := range u.Children {
		sb.WriteRune('\n')
		var childFirst, childCont string
		if i+1 < len(u.Children) {
			childFirst = contPrefix + "  |---: "
			childCont = contPrefix + "  |     "
		} else {
			childFirst = contPrefix + `  \---: `
			childCont = contPrefix + "        "
		}
		child.writeIndented(sb, childFirst, childCont)
	}
}

// Callback is a semantic action invoked at reduction time (spec §6,
// "Semantic callbacks"). It receives the popped children of the production
// in source order and returns the value to store on the new ParseUnit. A
// non-nil error is treated as a callback failure (spec §7,
// CallbackFailure) and propagates out of the driver unchanged.
type Callback func(children []ParseUnit) (any, error)

// NopCallback is a Callback that performs no semantic action and returns
// nil. It is the default used when augmenting a grammar without a
// caller-supplied callback for the synthetic start production (spec §4.1).
func NopCallback(children []ParseUnit) (any, error) {
	return nil, nil
}
