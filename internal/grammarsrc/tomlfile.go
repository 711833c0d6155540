package grammarsrc

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
)

// File is the on-disk TOML shape of a grammar definition for cmd/lrforge:
//
//	k = 1
//
//	[[rule]]
//	lhs = "E"
//	rhs = ["E", "+", "T"]
//	callback = "SemantAdd"
//	priority = 10
//
// callback and priority are both optional; an omitted callback reduces with
// lrtypes.NopCallback and an omitted priority defaults to 0, matching
// AddLine's defaults for productions authored without a "@Name$k=v" suffix.
type File struct {
	K     int    `toml:"k"`
	Rules []Rule `toml:"rule"`
}

// Rule is one production entry in a File.
type Rule struct {
	LHS      string            `toml:"lhs"`
	RHS      []string          `toml:"rhs"`
	Callback string            `toml:"callback"`
	Priority int               `toml:"priority"`
	Attrs    map[string]string `toml:"attrs"`
}

// LoadFile parses raw as a File and adds every rule to g via s, using the
// callbacks already registered on s. A Rule naming a callback s does not
// know about is an error.
func (s *Source) LoadFile(g *grammar.Grammar, raw []byte) (k int, err error) {
	var f File
	if _, err := toml.Decode(string(raw), &f); err != nil {
		return 0, fmt.Errorf("grammarsrc: decode grammar file: %w", err)
	}

	for i, r := range f.Rules {
		attrs := map[string]string{}
		for attrKey, attrVal := range r.Attrs {
			attrs[attrKey] = attrVal
		}
		attrs[grammar.PriorityAttr] = fmt.Sprintf("%d", r.Priority)

		var cb = s.callbacks[r.Callback]
		if r.Callback != "" && cb == nil {
			return 0, fmt.Errorf("grammarsrc: rule %d: no callback registered under %q", i, r.Callback)
		}

		rhs := make([]grammar.Symbol, len(r.RHS))
		for j, sym := range r.RHS {
			rhs[j] = grammar.Symbol(sym)
		}

		if err := g.AddRule(grammar.Symbol(r.LHS), rhs, cb, attrs); err != nil {
			return 0, fmt.Errorf("grammarsrc: rule %d: %w", i, err)
		}
	}

	return f.K, nil
}
