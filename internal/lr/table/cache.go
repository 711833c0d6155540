package table

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
)

// Snapshot is the flat, serialization-friendly shape of a Table: every
// field is a Go primitive or a slice/map of them, so it round-trips through
// rezi's binary encoding without needing the grammar or item packages in
// scope on the decoding side. BuildID is a random identifier generated
// afresh by every call to Table.Snapshot; nothing else in this module
// reads it.
type Snapshot struct {
	BuildID    string
	NumStates  int
	StartState int
	Symbols    []string
	Entries    []SnapshotEntry
}

// SnapshotEntry is one non-empty table cell.
type SnapshotEntry struct {
	State      int
	Symbol     string
	Kind       int
	Target     int
	ProdLHS    string
	ProdRHS    []string
	ProdPriori int
}

// Snapshot flattens t into a Snapshot stamped with a fresh random BuildID,
// ready to hand to rezi.EncBinary for caching to disk.
func (t Table) Snapshot() (Snapshot, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Snapshot{}, fmt.Errorf("table: generate build id: %w", err)
	}

	symbols := make([]string, len(t.symbols))
	for i, s := range t.symbols {
		symbols[i] = string(s)
	}

	var entries []SnapshotEntry
	for state := 0; state < t.numStates; state++ {
		for _, sym := range t.symbols {
			a, ok := t.Action(state, sym)
			if !ok {
				continue
			}
			entries = append(entries, SnapshotEntry{
				State:      state,
				Symbol:     string(sym),
				Kind:       int(a.Kind),
				Target:     a.Target,
				ProdLHS:    string(a.Production.LHS),
				ProdRHS:    symbolStrings(a.Production.RHS),
				ProdPriori: a.Production.Priority(),
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].State != entries[j].State {
			return entries[i].State < entries[j].State
		}
		return entries[i].Symbol < entries[j].Symbol
	})

	return Snapshot{
		BuildID:    id.String(),
		NumStates:  t.numStates,
		StartState: t.startState,
		Symbols:    symbols,
		Entries:    entries,
	}, nil
}

// FromSnapshot rebuilds the Table s describes. Semantic callbacks are not
// part of a Snapshot (funcs don't serialize); a Table rebuilt this way
// reduces by productions whose Semantic is always nil, i.e. every reduction
// invokes lrtypes.NopCallback. Callers that need callbacks preserved across
// a cache reload must re-run the Builder instead.
func FromSnapshot(s Snapshot) Table {
	action := make([]map[grammar.Symbol]Action, s.NumStates)
	for i := range action {
		action[i] = map[grammar.Symbol]Action{}
	}

	symbols := make([]grammar.Symbol, len(s.Symbols))
	for i, sym := range s.Symbols {
		symbols[i] = grammar.Symbol(sym)
	}

	for _, e := range s.Entries {
		rhs := make([]grammar.Symbol, len(e.ProdRHS))
		for i, sym := range e.ProdRHS {
			rhs[i] = grammar.Symbol(sym)
		}
		attrs := map[string]string{grammar.PriorityAttr: fmt.Sprintf("%d", e.ProdPriori)}

		action[e.State][grammar.Symbol(e.Symbol)] = Action{
			Kind:   ActionKind(e.Kind),
			Target: e.Target,
			Production: grammar.Production{
				LHS:   grammar.Symbol(e.ProdLHS),
				RHS:   rhs,
				Attrs: attrs,
			},
		}
	}

	return Table{
		numStates:  s.NumStates,
		startState: s.StartState,
		action:     action,
		symbols:    symbols,
	}
}

func symbolStrings(syms []grammar.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = string(s)
	}
	return out
}
