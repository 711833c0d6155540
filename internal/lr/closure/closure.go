// Package closure implements LR item-set closures, FIRST/FOLLOW
// computation, and the advance-and-extend operation that drives the
// automaton builder from one state to the next (spec §4.3, §4.4, §4.5).
package closure

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/dekarrin/lrforge/internal/lr/item"
)

// Outcome classifies what advancing a closure on a symbol produces (spec
// §4.4).
type Outcome int

const (
	// None means no item in the closure shifts or reduces on the symbol.
	None Outcome = iota
	// Shift means only kernel items were produced; no conflict.
	Shift
	// Reduce means only reducible items were found; no conflict.
	Reduce
	// Conflict means both shiftable and reducible items were found.
	Conflict
)

func (o Outcome) String() string {
	switch o {
	case Shift:
		return "SHIFT"
	case Reduce:
		return "REDUCE"
	case Conflict:
		return "CONFLICT"
	default:
		return "NONE"
	}
}

// FirstSets is the grammar-global FIRST table: FirstSets[A] is the set of
// terminals FIRST(A) can begin with. Per spec §9's resolution of the
// source's "FIRST is recomputed during advance" ambiguity, FIRST is
// grammar-global and is computed exactly once (by ComputeFirst) and shared,
// read-only, by every Closure built against that grammar.
type FirstSets map[grammar.Symbol]map[grammar.Symbol]bool

// ComputeFirst computes FIRST(A) for every nonterminal A in g, to a fixed
// point (spec §4.3). FIRST(t) = {t} for a terminal; FIRST(A) is the union,
// over every production A -> s ..., of FIRST(s). Grammars with
// epsilon-productions are outside the specified domain, so an empty RHS is
// simply skipped rather than handled as deriving FIRST(A) from a later
// symbol.
func ComputeFirst(g grammar.Grammar) FirstSets {
	nonTerminals := map[grammar.Symbol]bool{}
	for _, nt := range g.NonTerminals() {
		nonTerminals[nt] = true
	}

	first := FirstSets{}
	for nt := range nonTerminals {
		first[nt] = map[grammar.Symbol]bool{}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions() {
			if len(p.RHS) == 0 {
				continue
			}
			leading := p.RHS[0]

			var contributing map[grammar.Symbol]bool
			if nonTerminals[leading] {
				contributing = first[leading]
			} else {
				contributing = map[grammar.Symbol]bool{leading: true}
			}

			for sym := range contributing {
				if !first[p.LHS][sym] {
					first[p.LHS][sym] = true
					changed = true
				}
			}
		}
	}

	return first
}

// Closure is an LR(k) item set plus the FIRST/FOLLOW dictionaries and
// symbol partitions derived from it (spec §3).
type Closure struct {
	K        int
	Grammar  grammar.Grammar
	First    FirstSets
	Items    map[grammar.Symbol][]item.Item
	Terminals,
	NonTerminals map[grammar.Symbol]bool
	Follow map[grammar.Symbol]map[grammar.Symbol]bool // nil for K == 0
}

// New builds the initial closure C0 from g's core production (g's first
// production, expected to be the augmented start production, spec §4.6
// step 1). If g has no productions, New returns an empty closure (spec
// §4.10: a malformed/empty grammar is silent, not an error).
func New(g grammar.Grammar, first FirstSets, k int) Closure {
	if g.Len() == 0 {
		return Closure{
			K:            k,
			Grammar:      g,
			First:        first,
			Items:        map[grammar.Symbol][]item.Item{},
			Terminals:    map[grammar.Symbol]bool{},
			NonTerminals: map[grammar.Symbol]bool{},
		}
	}

	core := item.New(g.Production(0))
	if k == 1 {
		core = core.WithLookahead([]grammar.Symbol{grammar.EndOfInput})
	}

	eofSeed := func(grammar.Symbol) []grammar.Symbol { return []grammar.Symbol{grammar.EndOfInput} }
	return build(g, first, k, []item.Item{core}, eofSeed)
}

// AdvanceAndExtend classifies what happens when the closure is advanced on
// sym (spec §4.4): it collects every item reducible on sym and every item
// whose dot can move past sym, and reports which of SHIFT, REDUCE,
// CONFLICT, or NONE results. For SHIFT and CONFLICT, call BuildNext with
// the returned kernels to get the resulting closure.
func (c Closure) AdvanceAndExtend(sym grammar.Symbol) (outcome Outcome, reducers, kernels []item.Item) {
	for _, it := range c.AllItems() {
		if it.IsReducibleOn(sym) {
			reducers = append(reducers, it)
		}
		if next, ok := it.Advance(sym); ok {
			kernels = append(kernels, next)
		}
	}

	switch {
	case len(reducers) == 0 && len(kernels) == 0:
		return None, nil, nil
	case len(reducers) > 0 && len(kernels) == 0:
		return Reduce, reducers, nil
	case len(kernels) > 0 && len(reducers) == 0:
		return Shift, nil, kernels
	default:
		return Conflict, reducers, kernels
	}
}

// BuildNext constructs the closure reached by taking kernels (as returned
// by AdvanceAndExtend for SHIFT/CONFLICT) as the new state's kernel items
// (spec §4.4): reachability is re-expanded from the kernels, FOLLOW is
// recomputed seeded by the kernel items' own lookaheads (not @EOF), and
// every non-kernel item is expanded by the recomputed FOLLOW while kernel
// items keep the lookahead they already carry.
func (c Closure) BuildNext(kernels []item.Item) Closure {
	return build(c.Grammar, c.First, c.K, kernels, kernelFollowSeed(kernels))
}

// AllItems flattens Items into a single slice, ordered by LHS for
// deterministic iteration.
func (c Closure) AllItems() []item.Item {
	keys := make([]grammar.Symbol, 0, len(c.Items))
	for k := range c.Items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var out []item.Item
	for _, k := range keys {
		out = append(out, c.Items[k]...)
	}
	return out
}

// CanonicalKey renders the closure's item set, sorted by (lhs, rhs, dot,
// lookahead), as a single string (spec §4.5). Two closures denote the same
// item set iff their CanonicalKeys are equal; the derived First/Follow maps
// are not part of this identity.
func (c Closure) CanonicalKey() string {
	items := c.AllItems()
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key()
	}
	sort.Strings(keys)
	return strings.Join(keys, "\n")
}

// Equal returns whether c and other denote the same item set (spec §4.5).
func (c Closure) Equal(other Closure) bool {
	return c.CanonicalKey() == other.CanonicalKey()
}

// String renders the closure's items, one per line, for debugging.
func (c Closure) String() string {
	items := c.AllItems()
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = it.String()
	}
	return strings.Join(lines, "\n")
}

// kernelFollowSeed returns, for a nonterminal, the union of lookaheads
// carried by the kernel items whose production has that nonterminal as its
// LHS. Nonterminals with no matching kernel item seed to the empty set;
// their FOLLOW is still populated by the ordinary propagation rules.
func kernelFollowSeed(kernels []item.Item) func(grammar.Symbol) []grammar.Symbol {
	seeds := map[grammar.Symbol]map[grammar.Symbol]bool{}
	for _, k := range kernels {
		if len(k.Lookahead) == 0 {
			continue
		}
		if seeds[k.Production.LHS] == nil {
			seeds[k.Production.LHS] = map[grammar.Symbol]bool{}
		}
		for _, la := range k.Lookahead {
			seeds[k.Production.LHS][la] = true
		}
	}
	return func(nt grammar.Symbol) []grammar.Symbol {
		fs := seeds[nt]
		if len(fs) == 0 {
			return nil
		}
		out := make([]grammar.Symbol, 0, len(fs))
		for s := range fs {
			out = append(out, s)
		}
		return out
	}
}

// build is the shared construction routine behind New and BuildNext: given
// a set of kernel items, it computes reachability, classifies terminals and
// nonterminals, performs standard LR item-set closure expansion, and (for
// k=1) computes FOLLOW and expands non-kernel items across it (spec §4.3,
// §4.4).
func build(g grammar.Grammar, first FirstSets, k int, kernels []item.Item, followSeed func(grammar.Symbol) []grammar.Symbol) Closure {
	seedSymbols := make([]grammar.Symbol, 0, len(kernels)*2)
	for _, it := range kernels {
		seedSymbols = append(seedSymbols, it.Production.LHS)
		seedSymbols = append(seedSymbols, it.Production.RHS...)
	}

	reachableProds := reachableProductions(g, seedSymbols)

	nonTerminals := map[grammar.Symbol]bool{}
	for _, p := range reachableProds {
		nonTerminals[p.LHS] = true
	}
	terminals := map[grammar.Symbol]bool{}
	for _, p := range reachableProds {
		for _, sym := range p.RHS {
			if !nonTerminals[sym] {
				terminals[sym] = true
			}
		}
	}

	items, kernelKeys := expandItems(kernels, reachableProds, nonTerminals)

	var follow map[grammar.Symbol]map[grammar.Symbol]bool
	if k == 1 {
		follow = computeFollow(reachableProds, nonTerminals, first, followSeed)
		items = expandLookaheads(items, kernelKeys, follow)
	}

	grouped := map[grammar.Symbol][]item.Item{}
	for _, it := range items {
		grouped[it.Production.LHS] = append(grouped[it.Production.LHS], it)
	}

	return Closure{
		K:            k,
		Grammar:      g,
		First:        first,
		Items:        grouped,
		Terminals:    terminals,
		NonTerminals: nonTerminals,
		Follow:       follow,
	}
}

// reachableProductions computes the fixed point of: a production
// participates iff its LHS is a "known" symbol, where known starts as
// seeds and grows by adding every RHS symbol of each newly-included
// production (spec §4.3's "Reachability").
func reachableProductions(g grammar.Grammar, seeds []grammar.Symbol) []grammar.Production {
	all := g.Productions()
	known := map[grammar.Symbol]bool{}
	for _, s := range seeds {
		known[s] = true
	}

	included := make([]bool, len(all))
	changed := true
	for changed {
		changed = false
		for i, p := range all {
			if included[i] {
				continue
			}
			if known[p.LHS] {
				included[i] = true
				changed = true
				for _, sym := range p.RHS {
					if !known[sym] {
						known[sym] = true
					}
				}
			}
		}
	}

	out := make([]grammar.Production, 0, len(all))
	for i, inc := range included {
		if inc {
			out = append(out, all[i])
		}
	}
	return out
}

func itemDotKey(p grammar.Production, dot int) string {
	return p.Key() + "|" + strconv.Itoa(dot)
}

// expandItems performs the standard LR closure expansion: starting from
// kernels, whenever an item's dot precedes a nonterminal Y, every
// production of Y (dot at 0) is added, transitively, to a fixed point.
// Kernel items are deduplicated by their full identity, so kernels that
// differ only in lookahead are all kept; expansion items are deduplicated
// by (production, dot), since they carry no lookahead until
// expandLookaheads assigns one. kernelKeys records which
// (production, dot) pairs came from the kernel so BuildNext/New can tell
// kernel items from closure-expansion items apart after the fact.
func expandItems(kernels []item.Item, reachableProds []grammar.Production, nonTerminals map[grammar.Symbol]bool) (items []item.Item, kernelKeys map[string]bool) {
	seen := map[string]bool{}
	kernelKeys = map[string]bool{}

	kernelSeen := map[string]bool{}
	var worklist []item.Item
	for _, k := range kernels {
		ck := itemDotKey(k.Production, k.Dot)
		kernelKeys[ck] = true
		if kernelSeen[k.Key()] {
			continue
		}
		kernelSeen[k.Key()] = true
		items = append(items, k)
		if !seen[ck] {
			seen[ck] = true
			worklist = append(worklist, k)
		}
	}

	byLHS := map[grammar.Symbol][]grammar.Production{}
	for _, p := range reachableProds {
		byLHS[p.LHS] = append(byLHS[p.LHS], p)
	}

	for len(worklist) > 0 {
		it := worklist[0]
		worklist = worklist[1:]

		sym, ok := it.DotSymbol()
		if !ok || !nonTerminals[sym] {
			continue
		}

		for _, p := range byLHS[sym] {
			newItem := item.New(p)
			ck := itemDotKey(p, 0)
			if seen[ck] {
				continue
			}
			seen[ck] = true
			items = append(items, newItem)
			worklist = append(worklist, newItem)
		}
	}

	return items, kernelKeys
}

// computeFollow implements spec §4.3's FOLLOW rule: seed per followSeed,
// then for every production A -> ... X Y ... add Y's FIRST (or Y itself if
// terminal) to FOLLOW(X); then propagate FOLLOW(A) into FOLLOW(X) whenever
// a production A -> ... X ends in nonterminal X, iterating until the total
// follow-set size stabilizes.
func computeFollow(reachableProds []grammar.Production, nonTerminals map[grammar.Symbol]bool, first FirstSets, followSeed func(grammar.Symbol) []grammar.Symbol) map[grammar.Symbol]map[grammar.Symbol]bool {
	follow := map[grammar.Symbol]map[grammar.Symbol]bool{}
	for nt := range nonTerminals {
		follow[nt] = map[grammar.Symbol]bool{}
		for _, s := range followSeed(nt) {
			follow[nt][s] = true
		}
	}

	for _, p := range reachableProds {
		rhs := p.RHS
		for i := 0; i+1 < len(rhs); i++ {
			sym := rhs[i]
			next := rhs[i+1]
			if !nonTerminals[sym] {
				continue
			}
			if !nonTerminals[next] {
				follow[sym][next] = true
			} else {
				for s := range first[next] {
					follow[sym][s] = true
				}
			}
		}
	}

	for {
		before := followSize(follow)
		for _, p := range reachableProds {
			if len(p.RHS) == 0 {
				continue
			}
			last := p.RHS[len(p.RHS)-1]
			if !nonTerminals[last] {
				continue
			}
			for s := range follow[p.LHS] {
				follow[last][s] = true
			}
		}
		if followSize(follow) == before {
			break
		}
	}

	return follow
}

func followSize(follow map[grammar.Symbol]map[grammar.Symbol]bool) int {
	total := 0
	for _, s := range follow {
		total += len(s)
	}
	return total
}

// expandLookaheads replaces each non-kernel item with one copy per terminal
// in FOLLOW(its LHS); kernel items (identified by kernelKeys) are kept
// exactly as given (spec §4.4: "keep kernel items' lookaheads unchanged").
func expandLookaheads(items []item.Item, kernelKeys map[string]bool, follow map[grammar.Symbol]map[grammar.Symbol]bool) []item.Item {
	var out []item.Item
	for _, it := range items {
		if kernelKeys[itemDotKey(it.Production, it.Dot)] {
			out = append(out, it)
			continue
		}

		fs := follow[it.Production.LHS]
		if len(fs) == 0 {
			out = append(out, it)
			continue
		}
		for la := range fs {
			out = append(out, it.WithLookahead([]grammar.Symbol{la}))
		}
	}
	return out
}
