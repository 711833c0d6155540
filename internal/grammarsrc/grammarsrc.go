// Package grammarsrc is a small collaborator that sits above the core and
// lets a caller author productions as single-line strings instead of
// constructing grammar.Production values by hand, mirroring the original
// reference implementation's add_production_by_str_with_priority mini
// format. It depends on grammar; grammar never depends on it.
package grammarsrc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
)

// Source authors productions from strings and registers them on a Grammar.
// The zero value is ready to use; callers register callback names with
// RegisterCallback before parsing any line that references them.
type Source struct {
	callbacks map[string]lrtypes.Callback
}

// NewSource returns an empty Source.
func NewSource() *Source {
	return &Source{callbacks: map[string]lrtypes.Callback{}}
}

// RegisterCallback makes cb addressable from a production line as
// "@name". Calling it again with the same name overwrites the previous
// registration.
func (s *Source) RegisterCallback(name string, cb lrtypes.Callback) {
	if s.callbacks == nil {
		s.callbacks = map[string]lrtypes.Callback{}
	}
	s.callbacks[name] = cb
}

// AddLine parses line in the format
//
//	LHS (-> | : | |) SYM SYM ... [@CallbackName[$k=v[&k=v...]]]
//
// and adds the resulting production to g via g.AddRule. A trailing
// "$priority=N" (or a bare "$N" is not supported — attrs are always
// key=value pairs) sets the production's tie-break priority; any other
// "$k=v" pairs are preserved as opaque attrs the core never reads.
func (s *Source) AddLine(g *grammar.Grammar, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return fmt.Errorf("grammarsrc: %q: need at least a left-hand side and an arrow", line)
	}

	lhs := grammar.Symbol(fields[0])
	switch fields[1] {
	case "->", ":", "|":
	default:
		return fmt.Errorf("grammarsrc: %q: expected '->', ':', or '|' after the left-hand side, found %q", line, fields[1])
	}

	rhsFields := fields[2:]
	var cb lrtypes.Callback
	attrs := map[string]string{}

	if n := len(rhsFields); n > 0 && strings.HasPrefix(rhsFields[n-1], "@") {
		callbackSpec := rhsFields[n-1][1:]
		rhsFields = rhsFields[:n-1]

		parts := strings.SplitN(callbackSpec, "$", 2)
		name := parts[0]
		var ok bool
		cb, ok = s.callbacks[name]
		if !ok {
			return fmt.Errorf("grammarsrc: %q: no callback registered under %q", line, name)
		}
		if len(parts) == 2 && parts[1] != "" {
			for _, kv := range strings.Split(parts[1], "&") {
				k, v, found := strings.Cut(kv, "=")
				if !found {
					attrs[k] = ""
					continue
				}
				attrs[k] = v
			}
		}
	}

	if _, ok := attrs[grammar.PriorityAttr]; !ok {
		attrs[grammar.PriorityAttr] = "0"
	}
	if _, err := strconv.Atoi(attrs[grammar.PriorityAttr]); err != nil {
		return fmt.Errorf("grammarsrc: %q: priority attr %q is not an integer", line, attrs[grammar.PriorityAttr])
	}

	rhs := make([]grammar.Symbol, len(rhsFields))
	for i, f := range rhsFields {
		rhs[i] = grammar.Symbol(f)
	}

	return g.AddRule(lhs, rhs, cb, attrs)
}

// AddLines calls AddLine for each non-blank, non-comment ('#'-prefixed)
// line of src in order, stopping at the first error.
func (s *Source) AddLines(g *grammar.Grammar, src string) error {
	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := s.AddLine(g, trimmed); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}
