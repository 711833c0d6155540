package grammar

import (
	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
	"github.com/dekarrin/lrforge/internal/lrerrors"
)

// Grammar is a list of productions together with the symbol classification
// derivable from them (spec §3, §4.1). The zero value is an empty grammar
// ready to have rules added to it.
type Grammar struct {
	productions []Production
	start       Symbol
	augmented   bool
}

// AddRule appends a production LHS -> RHS with the given semantic callback
// and attributes to g. The first call to AddRule on a fresh Grammar fixes
// its StartSymbol (spec §4.1: "The first input production's lhs becomes the
// real start symbol"). Returns a GrammarShapeError if lhs is empty or is a
// reserved ('@'-prefixed) name other than the augmented start symbol itself
// (spec §7).
func (g *Grammar) AddRule(lhs Symbol, rhs []Symbol, semantic lrtypes.Callback, attrs map[string]string) error {
	if lhs == "" {
		return lrerrors.NewGrammarShapeError(string(lhs), "empty left-hand side")
	}
	if lhs.IsReserved() && lhs != AugmentedStart {
		return lrerrors.NewGrammarShapeError(string(lhs), "left-hand side uses a reserved '@' name")
	}

	rhsCopy := make([]Symbol, len(rhs))
	copy(rhsCopy, rhs)

	if len(g.productions) == 0 && lhs != AugmentedStart {
		g.start = lhs
	}

	g.productions = append(g.productions, Production{
		LHS:      lhs,
		RHS:      rhsCopy,
		Semantic: semantic,
		Attrs:    attrs,
	})
	return nil
}

// Productions returns the grammar's productions in the order they were
// added. The returned slice is a copy; mutating it does not affect g.
func (g Grammar) Productions() []Production {
	out := make([]Production, len(g.productions))
	copy(out, g.productions)
	return out
}

// Production returns the i'th production.
func (g Grammar) Production(i int) Production {
	return g.productions[i]
}

// Len returns the number of productions in g.
func (g Grammar) Len() int {
	return len(g.productions)
}

// StartSymbol returns the original (pre-augmentation) start symbol: the
// left-hand side of the first production added to g.
func (g Grammar) StartSymbol() Symbol {
	return g.start
}

// IsAugmented returns whether Augment has already been called on (a copy
// derived from) g.
func (g Grammar) IsAugmented() bool {
	return g.augmented
}

// Augment returns a new Grammar with a synthetic production @S -> S0
// prepended, where S0 is g's start symbol (spec §4.1). startCallback is
// invoked with a single child (the reduced S0 unit) when @S is reduced; if
// nil, the production uses lrtypes.NopCallback.
//
// Augmenting an already-augmented grammar is not a legal input (spec §8,
// testable property 7); it returns a GrammarShapeError.
//
// A Grammar with no productions cannot have a core production to point @S
// at; Augment returns it unchanged (still marked augmented), leaving
// automaton construction to silently produce an empty closure per spec
// §4.10's documented behavior for malformed/empty grammars.
func (g Grammar) Augment(startCallback lrtypes.Callback, attrs map[string]string) (Grammar, error) {
	if g.augmented {
		return Grammar{}, lrerrors.NewGrammarShapeError(string(AugmentedStart), "grammar is already augmented")
	}

	if len(g.productions) == 0 {
		return Grammar{augmented: true}, nil
	}

	aug := Production{
		LHS:      AugmentedStart,
		RHS:      []Symbol{g.start},
		Semantic: startCallback,
		Attrs:    attrs,
	}

	out := Grammar{
		start:       g.start,
		augmented:   true,
		productions: make([]Production, 0, len(g.productions)+1),
	}
	out.productions = append(out.productions, aug)
	out.productions = append(out.productions, g.productions...)
	return out, nil
}

// classify partitions every symbol appearing anywhere in g's productions
// into terminals and nonterminals: a symbol is a nonterminal iff it appears
// as some production's LHS (spec §4.3).
func (g Grammar) classify() (nonTerminals map[Symbol]bool, terminals map[Symbol]bool) {
	nonTerminals = map[Symbol]bool{}
	for _, p := range g.productions {
		nonTerminals[p.LHS] = true
	}

	terminals = map[Symbol]bool{}
	for _, p := range g.productions {
		for _, sym := range p.RHS {
			if !nonTerminals[sym] {
				terminals[sym] = true
			}
		}
	}
	return nonTerminals, terminals
}

// Terminals returns every symbol in g that is never the left-hand side of a
// production.
func (g Grammar) Terminals() []Symbol {
	_, terminals := g.classify()
	out := make([]Symbol, 0, len(terminals))
	for sym := range terminals {
		out = append(out, sym)
	}
	return out
}

// NonTerminals returns every symbol in g that is the left-hand side of at
// least one production.
func (g Grammar) NonTerminals() []Symbol {
	nonTerminals, _ := g.classify()
	out := make([]Symbol, 0, len(nonTerminals))
	for sym := range nonTerminals {
		out = append(out, sym)
	}
	return out
}

// IsTerminal returns whether sym is a terminal in g, i.e. it is not the
// left-hand side of any production. A symbol that appears nowhere in g is
// considered a terminal, matching the reference implementation's treatment
// of "unreached" symbols: classify() only consults LHS membership.
func (g Grammar) IsTerminal(sym Symbol) bool {
	nonTerminals, _ := g.classify()
	return !nonTerminals[sym]
}

// IsNonTerminal returns whether sym is the left-hand side of at least one
// production in g.
func (g Grammar) IsNonTerminal(sym Symbol) bool {
	nonTerminals, _ := g.classify()
	return nonTerminals[sym]
}

// RulesFor returns every production in g whose left-hand side is sym, in
// the order they were added.
func (g Grammar) RulesFor(sym Symbol) []Production {
	var out []Production
	for _, p := range g.productions {
		if p.LHS == sym {
			out = append(out, p)
		}
	}
	return out
}

// Validate is a caller-facing sanity check, not invoked automatically by
// Augment or the automaton builder (which silently tolerate an empty
// grammar per spec §4.10). It reports the shapes of malformed grammar a
// caller almost certainly didn't intend: no productions at all, or a
// grammar whose productions never mention a single terminal (which can
// never accept any input).
func (g Grammar) Validate() error {
	if len(g.productions) == 0 {
		return lrerrors.NewGrammarShapeError("", "grammar has no productions")
	}
	if len(g.Terminals()) == 0 {
		return lrerrors.NewGrammarShapeError(string(g.start), "grammar has no terminals; it can never match any input")
	}
	return nil
}
