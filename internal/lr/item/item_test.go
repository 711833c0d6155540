package item

import (
	"testing"

	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/stretchr/testify/assert"
)

func testProd() grammar.Production {
	return grammar.Production{LHS: "S", RHS: []grammar.Symbol{"a", "b"}}
}

func Test_Item_Advance(t *testing.T) {
	assert := assert.New(t)

	it := New(testProd())

	next, ok := it.Advance("a")
	assert.True(ok)
	assert.Equal(1, next.Dot)

	next2, ok := next.Advance("b")
	assert.True(ok)
	assert.Equal(2, next2.Dot)

	_, ok = next2.Advance("c")
	assert.False(ok, "advancing past the end of rhs should fail")

	_, ok = it.Advance("b")
	assert.False(ok, "advancing on the wrong symbol should fail")
}

func Test_Item_Advance_doesNotAliasLookahead(t *testing.T) {
	assert := assert.New(t)

	it := New(testProd()).WithLookahead([]grammar.Symbol{"@EOF"})
	next, ok := it.Advance("a")
	assert.True(ok)

	next.Lookahead[0] = "mutated"
	assert.Equal(grammar.Symbol("@EOF"), it.Lookahead[0], "advance must not alias the source lookahead slice")
}

func Test_Item_IsReducibleOn_LR0(t *testing.T) {
	assert := assert.New(t)

	it := Item{Production: testProd(), Dot: 2}
	assert.True(it.IsReducibleOn("anything"))
	assert.True(it.IsReducibleOn("@EOF"))

	notDone := Item{Production: testProd(), Dot: 1}
	assert.False(notDone.IsReducibleOn("a"))
}

func Test_Item_IsReducibleOn_LR1(t *testing.T) {
	assert := assert.New(t)

	it := Item{Production: testProd(), Dot: 2, Lookahead: []grammar.Symbol{"x"}}
	assert.True(it.IsReducibleOn("x"))
	assert.False(it.IsReducibleOn("y"))
}

func Test_Item_Equal(t *testing.T) {
	assert := assert.New(t)

	a := Item{Production: testProd(), Dot: 1, Lookahead: []grammar.Symbol{"x"}}
	b := Item{Production: testProd(), Dot: 1, Lookahead: []grammar.Symbol{"x"}}
	c := Item{Production: testProd(), Dot: 1, Lookahead: []grammar.Symbol{"y"}}
	d := Item{Production: testProd(), Dot: 0, Lookahead: []grammar.Symbol{"x"}}

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
	assert.False(a.Equal(d))
}

func Test_Item_String(t *testing.T) {
	assert := assert.New(t)

	it := Item{Production: testProd(), Dot: 1}
	assert.Equal("S -> a . b", it.String())

	it1 := it.WithLookahead([]grammar.Symbol{"@EOF"})
	assert.Equal("S -> a . b, @EOF", it1.String())
}
