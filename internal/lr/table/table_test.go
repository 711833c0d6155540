package table

import (
	"testing"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_Builder_Build(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	s0 := b.AddState()
	s1 := b.AddState()
	b.SetStart(s0)

	b.SetShift(s0, "a", s1)
	b.SetShift(s0, "S", s1) // post-reduce continuation on a nonterminal is a Shift too
	b.SetReduce(s1, "@EOF", grammar.Production{LHS: "S", RHS: []grammar.Symbol{"a"}})
	b.SetAccept(s1, "@EOF", grammar.Production{LHS: "@S", RHS: []grammar.Symbol{"S"}})

	tbl := b.Build()
	assert.Equal(2, tbl.NumStates())
	assert.Equal(s0, tbl.StartState())

	shift, ok := tbl.Action(s0, "a")
	assert.True(ok)
	assert.Equal(Shift, shift.Kind)
	assert.Equal(s1, shift.Target)

	goTo, ok := tbl.Action(s0, "S")
	assert.True(ok)
	assert.Equal(Shift, goTo.Kind)
	assert.Equal(s1, goTo.Target)

	_, ok = tbl.Action(s0, "nonexistent")
	assert.False(ok)
}

func Test_Table_ExpectedSymbols_sorted(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	s0 := b.AddState()
	b.SetShift(s0, "c", 0)
	b.SetShift(s0, "a", 0)
	b.SetShift(s0, "b", 0)

	tbl := b.Build()
	assert.Equal([]grammar.Symbol{"a", "b", "c"}, tbl.ExpectedSymbols(s0))
}

func Test_Table_String_doesNotPanic(t *testing.T) {
	b := NewBuilder()
	s0 := b.AddState()
	s1 := b.AddState()
	b.SetShift(s0, "a", s1)
	b.SetShift(s0, "S", s1)
	b.SetAccept(s1, "@EOF", grammar.Production{LHS: "@S", RHS: []grammar.Symbol{"S"}})

	tbl := b.Build()
	assert.NotEmpty(t, tbl.String())
}
