// Package item implements the LR(k) item (spec §3, §4.2): a production with
// a dot position and, for k=1, a single lookahead terminal.
package item

import (
	"fmt"
	"strings"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
)

// Item is a production with a dot marking how far it has been recognized,
// and an optional lookahead. Lookahead is empty for LR(0) items and holds
// exactly one terminal for LR(1) items (spec §3).
//
// Two items are equal iff Production (by LHS+RHS identity), Dot, and
// Lookahead are all equal (spec §3); see Equal.
type Item struct {
	Production grammar.Production
	Dot        int
	Lookahead  []grammar.Symbol
}

// New returns the item Production -> . RHS with no lookahead (an LR(0)
// item, or the pre-lookahead-expansion shape of an LR(1) item).
func New(p grammar.Production) Item {
	return Item{Production: p}
}

// DotSymbol returns the symbol immediately after the dot and true, or the
// zero Symbol and false if the dot is at the end of the production (the
// item is reducible).
func (it Item) DotSymbol() (grammar.Symbol, bool) {
	if it.Dot >= len(it.Production.RHS) {
		return "", false
	}
	return it.Production.RHS[it.Dot], true
}

// Advance returns a new item with the dot moved one position to the right,
// and true, if the symbol immediately after the dot is sym. Otherwise it
// returns the zero Item and false (spec §4.2). The returned item's
// Lookahead is a fresh copy of it.Lookahead, never the same backing array
// (spec §9: "shared mutable default argument" is a pitfall to avoid, so
// every item construction gets its own slice).
func (it Item) Advance(sym grammar.Symbol) (Item, bool) {
	next, ok := it.DotSymbol()
	if !ok || next != sym {
		return Item{}, false
	}
	return Item{
		Production: it.Production,
		Dot:        it.Dot + 1,
		Lookahead:  copyLookahead(it.Lookahead),
	}, true
}

// IsReducibleOn returns whether this item is reducible with sym as the
// lookahead symbol (spec §4.2): the dot must be at the end of the
// production, and for an LR(1) item (non-empty Lookahead) sym must be that
// item's single lookahead terminal. An LR(0) item (empty Lookahead) that
// has the dot at the end is reducible on any symbol.
func (it Item) IsReducibleOn(sym grammar.Symbol) bool {
	if it.Dot != len(it.Production.RHS) {
		return false
	}
	if len(it.Lookahead) == 0 {
		return true
	}
	return len(it.Lookahead) == 1 && it.Lookahead[0] == sym
}

// AtStart returns whether the dot is at position 0, i.e. this
// item has not yet had anything shifted into its own production (it is
// either the closure's core item, or would only appear in a closure by
// expansion rather than by being advanced into it).
func (it Item) AtStart() bool {
	return it.Dot == 0
}

// WithLookahead returns a copy of it carrying a fresh lookahead slice
// (never aliasing la's backing array).
func (it Item) WithLookahead(la []grammar.Symbol) Item {
	return Item{
		Production: it.Production,
		Dot:        it.Dot,
		Lookahead:  copyLookahead(la),
	}
}

// Equal returns whether it and other denote the same item: same production
// identity (LHS+RHS), same dot position, same lookahead sequence (spec §3).
func (it Item) Equal(other Item) bool {
	if !it.Production.Equal(other.Production) {
		return false
	}
	if it.Dot != other.Dot {
		return false
	}
	if len(it.Lookahead) != len(other.Lookahead) {
		return false
	}
	for i := range it.Lookahead {
		if it.Lookahead[i] != other.Lookahead[i] {
			return false
		}
	}
	return true
}

// Key returns a string that uniquely identifies it among items differing in
// production, dot position, or lookahead — suitable as a map key for item
// sets (spec §4.5's canonicalization relies on exactly this ordering key).
func (it Item) Key() string {
	var sb strings.Builder
	sb.WriteString(it.Production.Key())
	fmt.Fprintf(&sb, "|%d|", it.Dot)
	for i, la := range it.Lookahead {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(string(la))
	}
	return sb.String()
}

// String renders the item "LHS -> alpha . beta" and, for an LR(1) item,
// ", lookahead".
func (it Item) String() string {
	alpha := grammar.SymbolsString(it.Production.RHS[:it.Dot])
	beta := grammar.SymbolsString(it.Production.RHS[it.Dot:])

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s -> ", it.Production.LHS)
	if alpha != "" {
		sb.WriteString(alpha)
		sb.WriteRune(' ')
	}
	sb.WriteRune('.')
	if beta != "" {
		sb.WriteRune(' ')
		sb.WriteString(beta)
	}
	if len(it.Lookahead) > 0 {
		fmt.Fprintf(&sb, ", %s", grammar.SymbolsString(it.Lookahead))
	}
	return sb.String()
}

func copyLookahead(la []grammar.Symbol) []grammar.Symbol {
	if len(la) == 0 {
		return nil
	}
	out := make([]grammar.Symbol, len(la))
	copy(out, la)
	return out
}
