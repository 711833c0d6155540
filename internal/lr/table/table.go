// Package table holds the dense (state, Symbol) -> Action table produced by
// the automaton builder (spec §3, §4.6) and the Builder used to assemble it
// one state at a time. There is a single table, not a separate ACTION and
// GOTO table: a post-reduce continuation on a nonterminal is represented
// the same way a terminal shift is, as a Shift action (spec §4.8 looks up
// `table[top][lhs(p)]` and "expects a Shift(s')" there).
package table

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
)

// ActionKind distinguishes the things a table cell can tell the driver to
// do (spec §4.8). The absence of an entry for a (state, symbol) pair is
// itself the error action; there is no explicit ActionError value.
type ActionKind int

const (
	Shift ActionKind = iota
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "unknown"
	}
}

// Action is one table cell.
type Action struct {
	Kind ActionKind
	// Target is the destination state for a Shift (terminal shift or
	// post-reduce goto alike).
	Target int
	// Production is the production to reduce by for a Reduce.
	Production grammar.Production
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("s%d", a.Target)
	case Reduce:
		return fmt.Sprintf("r(%s)", a.Production.String())
	case Accept:
		return "acc"
	default:
		return ""
	}
}

// Table is the frozen (state, Symbol) -> Action table for an automaton
// (spec §3). Build one with a Builder; Table itself has no exported
// mutators.
type Table struct {
	numStates  int
	startState int
	action     []map[grammar.Symbol]Action
	symbols    []grammar.Symbol
}

// NumStates returns how many states the table has.
func (t Table) NumStates() int { return t.numStates }

// StartState returns the index of the initial state.
func (t Table) StartState() int { return t.startState }

// Action returns the table entry for (state, sym), or false if there is
// none (an error entry, spec §4.9).
func (t Table) Action(state int, sym grammar.Symbol) (Action, bool) {
	a, ok := t.action[state][sym]
	return a, ok
}

// ExpectedSymbols returns, sorted, every symbol with an entry in state —
// used to build "expected one of: ..." syntax error messages (spec §7).
func (t Table) ExpectedSymbols(state int) []grammar.Symbol {
	var out []grammar.Symbol
	for sym := range t.action[state] {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the table as a state x symbol grid, one column per symbol
// with any entry anywhere in the table, in the style of the original
// canonical-LR table dump.
func (t Table) String() string {
	data := make([][]string, 0, t.numStates+1)

	header := []string{"State", "|"}
	for _, sym := range t.symbols {
		header = append(header, string(sym))
	}
	data = append(data, header)

	for i := 0; i < t.numStates; i++ {
		row := []string{fmt.Sprintf("%d", i), "|"}
		for _, sym := range t.symbols {
			cell := ""
			if a, ok := t.Action(i, sym); ok {
				cell = a.String()
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// Builder assembles a Table one state's worth of entries at a time. It is
// not safe for concurrent use; the automaton builder owns one Builder for
// the duration of a single Build call.
type Builder struct {
	action  []map[grammar.Symbol]Action
	symbols map[grammar.Symbol]bool
	start   int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{symbols: map[grammar.Symbol]bool{}}
}

// AddState reserves the next state index and returns it.
func (b *Builder) AddState() int {
	b.action = append(b.action, map[grammar.Symbol]Action{})
	return len(b.action) - 1
}

// SetStart marks state as the table's start state.
func (b *Builder) SetStart(state int) {
	b.start = state
}

// SetShift records a shift-on-sym action (terminal shift or post-reduce
// continuation on a nonterminal alike) from state to target.
func (b *Builder) SetShift(state int, sym grammar.Symbol, target int) {
	b.symbols[sym] = true
	b.action[state][sym] = Action{Kind: Shift, Target: target}
}

// SetReduce records a reduce-by-production action from state on sym.
func (b *Builder) SetReduce(state int, sym grammar.Symbol, p grammar.Production) {
	b.symbols[sym] = true
	b.action[state][sym] = Action{Kind: Reduce, Production: p}
}

// SetAccept records the accept action from state on sym. p is the
// augmented-start production (@S -> S0), carried on the action so the
// driver can perform the final reduction under @S rather than merely
// flipping a flag (spec §4.8: "the last ParseUnit reduced under @S is the
// parse tree root").
func (b *Builder) SetAccept(state int, sym grammar.Symbol, p grammar.Production) {
	b.symbols[sym] = true
	b.action[state][sym] = Action{Kind: Accept, Production: p}
}

// Build freezes the builder's accumulated state into a Table.
func (b *Builder) Build() Table {
	symbols := make([]grammar.Symbol, 0, len(b.symbols))
	for s := range b.symbols {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	return Table{
		numStates:  len(b.action),
		startState: b.start,
		action:     b.action,
		symbols:    symbols,
	}
}
