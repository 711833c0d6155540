package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
)

// PriorityAttr is the Production.Attrs key the conflict policy reads to
// break shift/reduce and reduce/reduce ties (spec §3, §4.7).
const PriorityAttr = "priority"

// Production is a single grammar rule: LHS -> RHS, with a semantic callback
// invoked at reduction time and an opaque attribute bag the core only reads
// PriorityAttr from (spec §3). Two productions are considered the same
// production for the purposes of Item equality (spec §3) iff their LHS and
// RHS match; Semantic and Attrs are not part of that identity.
type Production struct {
	LHS      Symbol
	RHS      []Symbol
	Semantic lrtypes.Callback
	Attrs    map[string]string
}

// Priority returns the production's tie-break priority: attrs["priority"]
// parsed as a non-negative integer, defaulting to 0 if absent or malformed.
func (p Production) Priority() int {
	raw, ok := p.Attrs[PriorityAttr]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Equal returns whether p and other denote the same production, i.e. same
// LHS and same RHS symbols in the same order. Semantic and Attrs are
// ignored, matching the identity rule spec §3 gives for Item equality.
func (p Production) Equal(other Production) bool {
	if p.LHS != other.LHS {
		return false
	}
	if len(p.RHS) != len(other.RHS) {
		return false
	}
	for i := range p.RHS {
		if p.RHS[i] != other.RHS[i] {
			return false
		}
	}
	return true
}

// String renders the production as "LHS -> RHS".
func (p Production) String() string {
	return fmt.Sprintf("%s -> %s", p.LHS, SymbolsString(p.RHS))
}

// Key returns a string uniquely identifying p by LHS+RHS, suitable as a map
// key wherever production identity (not attrs or semantic) is what matters.
func (p Production) Key() string {
	var sb strings.Builder
	sb.WriteString(string(p.LHS))
	sb.WriteString(" -> ")
	sb.WriteString(SymbolsString(p.RHS))
	return sb.String()
}

// Invoke calls p.Semantic on children, substituting lrtypes.NopCallback if
// the production has no semantic action assigned (spec §4.8: the driver
// invokes this at reduction time).
func (p Production) Invoke(children []lrtypes.ParseUnit) (any, error) {
	if p.Semantic == nil {
		return lrtypes.NopCallback(children)
	}
	return p.Semantic(children)
}
