// Package driver implements the shift/reduce driving loop (spec §4.8,
// §4.9, §4.10): feed it tokens one at a time, call Finish, and read the
// parse tree back out. It is the only package in this module that actually
// consumes a built automaton.Table rather than building one.
package driver

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
	"github.com/dekarrin/lrforge/internal/lr/table"
	"github.com/dekarrin/lrforge/internal/lrerrors"
)

// Driver runs the shift/reduce loop described in spec §4.8 against a frozen
// Table. The zero value is not usable; use New. A Driver is not safe for
// concurrent use, but many Drivers may share one Table (spec §5, "Table is
// frozen after construction").
type Driver struct {
	table table.Table

	stateStack *arraystack.Stack // of int
	valueStack *arraystack.Stack // of lrtypes.ParseUnit

	accepted bool
	trace    func(string)
}

// New returns a Driver ready to Feed tokens against tbl, with the state
// stack seeded with tbl.StartState() (spec §4.8: "bottom = 0").
func New(tbl table.Table) *Driver {
	d := &Driver{
		table:      tbl,
		stateStack: arraystack.New(),
		valueStack: arraystack.New(),
	}
	d.stateStack.Push(tbl.StartState())
	return d
}

// RegisterTraceListener installs fn to receive a line of text for every
// shift, reduce, and accept the driver performs. Passing nil disables
// tracing; trace strings are never built unless a listener is registered.
func (d *Driver) RegisterTraceListener(fn func(string)) {
	d.trace = fn
}

func (d *Driver) notifyTrace(format string, args ...any) {
	if d.trace != nil {
		d.trace(fmt.Sprintf(format, args...))
	}
}

// Accepted returns whether the driver has reached the Accept action.
func (d *Driver) Accepted() bool {
	return d.accepted
}

func (d *Driver) topState() int {
	top, ok := d.stateStack.Peek()
	if !ok {
		panic("driver: state stack empty; this is a programming error, the stack always holds at least the start state")
	}
	return top.(int)
}

// Feed drives tok (a terminal ParseUnit with no children, name = the
// token's symbol) through the automaton: it applies Reduce actions until a
// Shift or Accept is reached, then — for Shift — pushes tok itself (spec
// §4.8 step 3). Feed must not be called again after Accept or after an
// error.
func (d *Driver) Feed(tok lrtypes.ParseUnit) error {
	sym := grammar.Symbol(tok.Name)

	for {
		state := d.topState()
		action, ok := d.table.Action(state, sym)
		if !ok {
			expected := symbolStrings(d.table.ExpectedSymbols(state))
			return lrerrors.NewParseSyntaxError(tok, state, expected)
		}

		switch action.Kind {
		case table.Accept:
			// The augmented production @S -> S0 is never reduced by an
			// ordinary table entry (the accept state's entry is Accept,
			// not Reduce); perform that final reduction here so the value
			// stack ends up holding, bottom to top, @S then @EOF (spec
			// §8 invariant 4), matching what ParseTree looks for.
			if err := d.reduce(action.Production); err != nil {
				return err
			}
			d.valueStack.Push(tok)
			d.accepted = true
			d.notifyTrace("accept in state %d on %s", state, sym)
			return nil

		case table.Shift:
			d.stateStack.Push(action.Target)
			d.notifyTrace("shift %s -> state %d", sym, action.Target)
			d.valueStack.Push(tok)
			return nil

		case table.Reduce:
			if err := d.reduce(action.Production); err != nil {
				return err
			}
			sym = grammar.Symbol(action.Production.LHS)
			// The lookup below treats lhs(p) as if it were the next
			// input symbol (spec §4.8 step 2's "continue loop with that
			// action"); the real tok is still pending and is fed again
			// once this goto resolves to a Shift.
			state = d.topState()
			gotoAction, ok := d.table.Action(state, sym)
			if !ok {
				expected := symbolStrings(d.table.ExpectedSymbols(state))
				return lrerrors.NewParseSyntaxError(tok, state, expected)
			}
			if gotoAction.Kind != table.Shift {
				return fmt.Errorf("driver: state %d has no goto shift on %s after reducing", state, sym)
			}
			d.stateStack.Push(gotoAction.Target)
			d.notifyTrace("goto %s -> state %d", sym, gotoAction.Target)
			sym = grammar.Symbol(tok.Name)
		}
	}
}

// reduce pops |rhs(p)| entries from both stacks, invokes p's semantic
// callback, and pushes the resulting nonterminal ParseUnit onto the value
// stack (spec §4.8 step 2, Reduce case).
func (d *Driver) reduce(p grammar.Production) error {
	n := len(p.RHS)
	children := make([]lrtypes.ParseUnit, n)
	for i := n - 1; i >= 0; i-- {
		d.stateStack.Pop()
		v, _ := d.valueStack.Pop()
		children[i] = v.(lrtypes.ParseUnit)
	}

	value, err := p.Invoke(children)
	if err != nil {
		return lrerrors.NewCallbackFailure(string(p.LHS), err)
	}

	pos := lrtypes.Position{Line: -1, Col: -1}
	if n > 0 {
		pos = children[0].Position
	}

	unit := lrtypes.ParseUnit{
		Name:     string(p.LHS),
		Children: children,
		Position: pos,
		Value:    value,
	}
	d.valueStack.Push(unit)
	d.notifyTrace("reduce by %s", p.String())
	return nil
}

// Finish synthesizes the @EOF ParseUnit (spec §4.8, "on_finish") and feeds
// it once, which should drive the remaining reductions through to Accept.
func (d *Driver) Finish() error {
	eof := lrtypes.ParseUnit{
		Name:     string(grammar.EndOfInput),
		Position: lrtypes.Position{Line: -1, Col: -1},
	}
	return d.Feed(eof)
}

// ParseTree scans the value stack for the unit named @S and returns it
// (spec §4.8, "get_parse_tree"). The second return is false if no such
// unit is present, meaning the parse did not complete.
func (d *Driver) ParseTree() (lrtypes.ParseUnit, bool) {
	for _, v := range d.valueStack.Values() {
		unit := v.(lrtypes.ParseUnit)
		if unit.Name == string(grammar.AugmentedStart) {
			return unit, true
		}
	}
	return lrtypes.ParseUnit{}, false
}

func symbolStrings(syms []grammar.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = string(s)
	}
	return out
}
