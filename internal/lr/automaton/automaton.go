// Package automaton builds the canonical LR(k) automaton — the discovered
// closures and the table derived from them — from an augmented grammar
// (spec §4.6).
package automaton

import (
	"fmt"
	"sort"

	"github.com/dekarrin/lrforge/internal/lr/closure"
	"github.com/dekarrin/lrforge/internal/lr/conflict"
	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/dekarrin/lrforge/internal/lr/item"
	"github.com/dekarrin/lrforge/internal/lr/table"
	"github.com/dekarrin/lrforge/internal/lrerrors"
)

// Automaton is the built table plus the closures it was built from (kept
// for debugging/dumping) and the conflict log accumulated along the way.
type Automaton struct {
	Table       table.Table
	States      []closure.Closure
	ConflictLog string
}

// Builder runs the BFS of spec §4.6. The zero value is not usable; use
// NewBuilder.
type Builder struct {
	K      int
	Policy conflict.Policy

	trace func(string)
}

// NewBuilder returns a Builder for LR(k) automata. If policy is nil, a
// fresh conflict.DefaultPolicy is used.
func NewBuilder(k int, policy conflict.Policy) *Builder {
	if policy == nil {
		policy = conflict.NewDefaultPolicy()
	}
	return &Builder{K: k, Policy: policy}
}

// RegisterTraceListener installs fn to receive a line of text for every
// transition the builder emits. Passing nil disables tracing. Tracing has
// no effect on the built Automaton; it exists purely for diagnostics.
func (b *Builder) RegisterTraceListener(fn func(string)) {
	b.trace = fn
}

func (b *Builder) tracef(format string, args ...any) {
	if b.trace != nil {
		b.trace(fmt.Sprintf(format, args...))
	}
}

// Build runs the full BFS construction (spec §4.6). g must already be
// augmented (grammar.Augment). Discovering the state reached by shifting
// the original start symbol falls directly out of processing state 0 like
// any other state — advancing C0 on that symbol yields both the augmented
// item `@S -> S .` and, for a left-recursive start symbol, any sibling item
// still expecting more input, so that state's other transitions (if any)
// are built the same way every other state's are.
func (b *Builder) Build(g grammar.Grammar) (Automaton, error) {
	if !g.IsAugmented() {
		return Automaton{}, fmt.Errorf("automaton: grammar must be augmented before building")
	}

	var first closure.FirstSets
	if b.K == 1 {
		first = closure.ComputeFirst(g)
	}

	c0 := closure.New(g, first, b.K)

	tb := table.NewBuilder()
	tb.AddState()
	tb.SetStart(0)

	states := []closure.Closure{c0}
	keyIndex := map[string]int{c0.CanonicalKey(): 0}

	// Every symbol of the grammar (plus @EOF, which never appears in any
	// rhs) is probed at every state: a closure's own Terminals/NonTerminals
	// fields are scoped to what that closure's kernel productions reach
	// (spec §3), which is too narrow a set to decide table entries from —
	// e.g. a state reached after shifting a terminal has no kernel
	// production mentioning whatever operator follows it, but still needs a
	// reduce entry registered for that operator.
	symbols := allSymbols(g)

	for idx := 0; idx < len(states); idx++ {
		if err := b.processState(tb, &states, keyIndex, idx, states[idx], symbols); err != nil {
			return Automaton{}, err
		}
	}

	return Automaton{
		Table:       tb.Build(),
		States:      states,
		ConflictLog: b.Policy.Log(),
	}, nil
}

// stateFor returns the index of a state whose closure equals next,
// discovering (and appending) a new one if none exists yet. Table and
// States are always grown together so their indices stay aligned.
func (b *Builder) stateFor(tb *table.Builder, states *[]closure.Closure, keyIndex map[string]int, next closure.Closure) int {
	key := next.CanonicalKey()
	if idx, ok := keyIndex[key]; ok {
		return idx
	}
	idx := tb.AddState()
	*states = append(*states, next)
	keyIndex[key] = idx
	return idx
}

func (b *Builder) processState(tb *table.Builder, states *[]closure.Closure, keyIndex map[string]int, idx int, cur closure.Closure, symbols []grammar.Symbol) error {
	for _, sym := range symbols {
		outcome, rawReducers, kernels := cur.AdvanceAndExtend(sym)
		if outcome == closure.None {
			continue
		}

		reducers := withoutAcceptArtifact(rawReducers, sym)

		switch {
		case len(kernels) > 0 && len(reducers) == 0:
			target := b.stateFor(tb, states, keyIndex, cur.BuildNext(kernels))
			tb.SetShift(idx, sym, target)
			b.tracef("state %d: shift %s -> state %d", idx, sym, target)

		case len(reducers) > 0 && len(kernels) == 0:
			prod, err := b.chooseReduce(idx, sym, reducers)
			if err != nil {
				return err
			}
			b.emitReduce(tb, idx, sym, prod)

		case len(reducers) > 0 && len(kernels) > 0:
			res, err := b.Policy.Resolve(conflict.ShiftReduce, reducers, kernels)
			if err != nil {
				return lrerrors.NewConflictUnresolved(lrerrors.ShiftReduce, idx, string(sym), err.Error())
			}
			switch res.Outcome {
			case closure.Shift:
				target := b.stateFor(tb, states, keyIndex, cur.BuildNext(res.Kernels))
				tb.SetShift(idx, sym, target)
				b.tracef("state %d: conflict on %s resolved to shift -> state %d", idx, sym, target)
			case closure.Reduce:
				b.emitReduce(tb, idx, sym, res.Chosen.Production)
				b.tracef("state %d: conflict on %s resolved to reduce %s", idx, sym, res.Chosen.Production.String())
			default:
				return lrerrors.NewConflictUnresolved(lrerrors.ShiftReduce, idx, string(sym), fmt.Sprintf("conflict policy returned unusable outcome %v", res.Outcome))
			}
		}
	}

	return nil
}

// withoutAcceptArtifact drops the augmented-start item from a reducer list
// except when sym is @EOF. Under k=0 an item is "reducible on anything"
// regardless of lookahead (spec §4.2), so the completed `@S -> S .` item
// spuriously reports itself reducible on every symbol a state happens to
// classify, not just @EOF; left unfiltered this manufactures a conflict
// against every legitimate shift coexisting with it (e.g. the state reached
// by shifting a left-recursive start symbol, which must still be able to
// shift whatever follows it). Accept is only ever meaningful at @EOF.
func withoutAcceptArtifact(reducers []item.Item, sym grammar.Symbol) []item.Item {
	if sym == grammar.EndOfInput {
		return reducers
	}
	out := reducers[:0:0]
	for _, r := range reducers {
		if r.Production.LHS == grammar.AugmentedStart {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (b *Builder) chooseReduce(state int, sym grammar.Symbol, reducers []item.Item) (grammar.Production, error) {
	if len(reducers) == 1 {
		return reducers[0].Production, nil
	}
	res, err := b.Policy.Resolve(conflict.MultiReduce, reducers, nil)
	if err != nil {
		return grammar.Production{}, lrerrors.NewConflictUnresolved(lrerrors.MultiReduce, state, string(sym), err.Error())
	}
	return res.Chosen.Production, nil
}

// emitReduce records a reduce action unless prod is the synthetic start
// production, in which case it is an accept (spec §4.8: reducing @S is
// what the driver treats as having recognized the whole input).
func (b *Builder) emitReduce(tb *table.Builder, state int, sym grammar.Symbol, prod grammar.Production) {
	if prod.LHS == grammar.AugmentedStart {
		tb.SetAccept(state, sym, prod)
		return
	}
	tb.SetReduce(state, sym, prod)
}

// allSymbols returns every terminal and nonterminal in g, plus @EOF (which
// never appears in a production's rhs but is always a valid lookahead),
// sorted.
func allSymbols(g grammar.Grammar) []grammar.Symbol {
	set := map[grammar.Symbol]bool{grammar.EndOfInput: true}
	for _, t := range g.Terminals() {
		set[t] = true
	}
	for _, nt := range g.NonTerminals() {
		set[nt] = true
	}

	out := make([]grammar.Symbol, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
