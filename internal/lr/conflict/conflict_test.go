package conflict

import (
	"testing"

	"github.com/dekarrin/lrforge/internal/lr/closure"
	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/dekarrin/lrforge/internal/lr/item"
	"github.com/stretchr/testify/assert"
)

func Test_DefaultPolicy_ShiftReduce_tieBreaksToShift(t *testing.T) {
	assert := assert.New(t)

	p := NewDefaultPolicy()
	reducer := item.Item{Production: grammar.Production{LHS: "E", RHS: []grammar.Symbol{"E", "+", "E"}}, Dot: 3}
	kernel := item.Item{Production: grammar.Production{LHS: "E", RHS: []grammar.Symbol{"E", "+", "E"}}, Dot: 2}

	res, err := p.Resolve(ShiftReduce, []item.Item{reducer}, []item.Item{kernel})
	assert.NoError(err)
	assert.Equal(closure.Shift, res.Outcome)

	log := p.Log()
	assert.Contains(log, "Shift-Reduce Conflict:")
	assert.Contains(log, "Core Item(s):")
	assert.Contains(log, "Reduce Production(s):")
	assert.Contains(log, "Conflict Solving Result: SHIFT")
}

func Test_DefaultPolicy_ShiftReduce_higherReducePriorityWins(t *testing.T) {
	assert := assert.New(t)

	p := NewDefaultPolicy()
	reducer := item.Item{
		Production: grammar.Production{LHS: "E", RHS: []grammar.Symbol{"E", "+", "E"}, Attrs: map[string]string{"priority": "10"}},
		Dot:        3,
	}
	kernel := item.Item{Production: grammar.Production{LHS: "E", RHS: []grammar.Symbol{"E", "+", "E"}}, Dot: 2}

	res, err := p.Resolve(ShiftReduce, []item.Item{reducer}, []item.Item{kernel})
	assert.NoError(err)
	assert.Equal(closure.Reduce, res.Outcome)
	assert.True(res.Chosen.Equal(reducer))
	assert.Contains(p.Log(), "Conflict Solving Result: REDUCE")
}

func Test_DefaultPolicy_MultiReduce_highestPriorityWins(t *testing.T) {
	assert := assert.New(t)

	p := NewDefaultPolicy()
	low := item.Item{Production: grammar.Production{LHS: "A", RHS: []grammar.Symbol{"x"}}, Dot: 1}
	high := item.Item{
		Production: grammar.Production{LHS: "B", RHS: []grammar.Symbol{"x"}, Attrs: map[string]string{"priority": "5"}},
		Dot:        1,
	}

	res, err := p.Resolve(MultiReduce, []item.Item{low, high}, nil)
	assert.NoError(err)
	assert.Equal(closure.Reduce, res.Outcome)
	assert.True(res.Chosen.Equal(high))
	assert.Contains(p.Log(), "Reduce-Reduce Conflict:")
}

func Test_DefaultPolicy_MultiReduce_tieBreaksToFirstSeen(t *testing.T) {
	assert := assert.New(t)

	p := NewDefaultPolicy()
	first := item.Item{Production: grammar.Production{LHS: "A", RHS: []grammar.Symbol{"x"}}, Dot: 1}
	second := item.Item{Production: grammar.Production{LHS: "B", RHS: []grammar.Symbol{"x"}}, Dot: 1}

	res, err := p.Resolve(MultiReduce, []item.Item{first, second}, nil)
	assert.NoError(err)
	assert.True(res.Chosen.Equal(first))
}
