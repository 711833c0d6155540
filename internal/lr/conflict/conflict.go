// Package conflict implements the shift/reduce conflict policy the
// automaton builder consults when a closure's advance is ambiguous (spec
// §4.7).
package conflict

import (
	"fmt"
	"strings"

	"github.com/dekarrin/lrforge/internal/lr/closure"
	"github.com/dekarrin/lrforge/internal/lr/item"
)

// Kind distinguishes the two conflict shapes the builder can hit (spec
// §4.6 step 4).
type Kind int

const (
	// ShiftReduce is a closure that both shifts and reduces on a symbol.
	ShiftReduce Kind = iota
	// MultiReduce is a closure reducible by more than one production on the
	// same symbol.
	MultiReduce
)

func (k Kind) String() string {
	if k == MultiReduce {
		return "reduce-reduce"
	}
	return "shift-reduce"
}

// Resolution is what a Policy decides: either SHIFT (with the kernels to
// carry forward) or REDUCE (with the single chosen item).
type Resolution struct {
	Outcome closure.Outcome // closure.Shift or closure.Reduce
	Kernels []item.Item
	Chosen  item.Item
}

// Policy resolves a conflict the builder has detected. Resolve is called
// once per conflicting (state, symbol) pair.
type Policy interface {
	// Resolve decides a ShiftReduce conflict (reducers and kernels both
	// populated) or a MultiReduce conflict (kernels nil, at least two
	// reducers).
	Resolve(kind Kind, reducers, kernels []item.Item) (Resolution, error)
	// Log returns the policy's accumulated conflict log (spec §4.7:
	// "retrievable by the caller").
	Log() string
}

// DefaultPolicy resolves conflicts by production priority
// (`attrs["priority"]`, higher wins); ties break shift-over-reduce for
// ShiftReduce, and first-seen for MultiReduce. Every resolution is logged
// in the two-part "Core Item(s)" / "Reduce Production(s)" /
// "Conflict Solving Result" shape of the original production's
// conflict_callback (spec §9, Part D.2).
type DefaultPolicy struct {
	log strings.Builder
}

// NewDefaultPolicy returns a DefaultPolicy with an empty log.
func NewDefaultPolicy() *DefaultPolicy {
	return &DefaultPolicy{}
}

// Resolve implements Policy.
func (p *DefaultPolicy) Resolve(kind Kind, reducers, kernels []item.Item) (Resolution, error) {
	switch kind {
	case ShiftReduce:
		return p.resolveShiftReduce(reducers, kernels)
	case MultiReduce:
		return p.resolveMultiReduce(reducers)
	default:
		return Resolution{}, fmt.Errorf("conflict: unrecognized kind %v", kind)
	}
}

// Log implements Policy.
func (p *DefaultPolicy) Log() string {
	return p.log.String()
}

func (p *DefaultPolicy) resolveShiftReduce(reducers, kernels []item.Item) (Resolution, error) {
	if len(reducers) == 0 || len(kernels) == 0 {
		return Resolution{}, fmt.Errorf("conflict: shift-reduce resolution needs both a reducer and a kernel")
	}

	p.log.WriteString("Shift-Reduce Conflict:\n")
	p.logCoreItems(kernels)
	p.logReduceProductions(reducers)

	shiftPriority := maxPriority(kernels)
	reducePriority := maxPriority(reducers)

	if reducePriority > shiftPriority {
		chosen := highestPriorityItem(reducers)
		fmt.Fprintf(&p.log, "Conflict Solving Result: REDUCE by %s\n", chosen.Production.String())
		return Resolution{Outcome: closure.Reduce, Chosen: chosen}, nil
	}

	p.log.WriteString("Conflict Solving Result: SHIFT\n")
	return Resolution{Outcome: closure.Shift, Kernels: kernels}, nil
}

func (p *DefaultPolicy) resolveMultiReduce(reducers []item.Item) (Resolution, error) {
	if len(reducers) < 2 {
		return Resolution{}, fmt.Errorf("conflict: reduce-reduce resolution needs at least two reducers")
	}

	p.log.WriteString("Reduce-Reduce Conflict:\n")
	p.logReduceProductions(reducers)

	chosen := highestPriorityItem(reducers)
	fmt.Fprintf(&p.log, "Conflict Solving Result: REDUCE by %s\n", chosen.Production.String())
	return Resolution{Outcome: closure.Reduce, Chosen: chosen}, nil
}

func (p *DefaultPolicy) logCoreItems(items []item.Item) {
	p.log.WriteString("Core Item(s):\n")
	for _, it := range items {
		fmt.Fprintf(&p.log, "  %s\n", it.String())
	}
}

func (p *DefaultPolicy) logReduceProductions(items []item.Item) {
	p.log.WriteString("Reduce Production(s):\n")
	for _, it := range items {
		fmt.Fprintf(&p.log, "  %s\n", it.Production.String())
	}
}

// highestPriorityItem returns the item among items whose production has the
// highest priority, breaking ties toward the first-seen item.
func highestPriorityItem(items []item.Item) item.Item {
	best := items[0]
	for _, it := range items[1:] {
		if it.Production.Priority() > best.Production.Priority() {
			best = it
		}
	}
	return best
}

func maxPriority(items []item.Item) int {
	max := 0
	for i, it := range items {
		pr := it.Production.Priority()
		if i == 0 || pr > max {
			max = pr
		}
	}
	return max
}
