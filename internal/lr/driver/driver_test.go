package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/lrforge/internal/lr/automaton"
	"github.com/dekarrin/lrforge/internal/lr/grammar"
	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
	"github.com/dekarrin/lrforge/internal/lrerrors"
)

// sumGrammar builds E -> E + T | T; T -> n with semantic callbacks that sum
// integer literals, so a successful parse's root value is checkable.
func sumGrammar(t *testing.T) grammar.Grammar {
	t.Helper()
	g := grammar.Grammar{}
	addE := func(children []lrtypes.ParseUnit) (any, error) {
		left := children[0].Value.(int)
		right := children[2].Value.(int)
		return left + right, nil
	}
	passThroughE := func(children []lrtypes.ParseUnit) (any, error) {
		return children[0].Value, nil
	}
	assert.NoError(t, g.AddRule("E", []grammar.Symbol{"E", "+", "T"}, addE, nil))
	assert.NoError(t, g.AddRule("E", []grammar.Symbol{"T"}, passThroughE, nil))
	assert.NoError(t, g.AddRule("T", []grammar.Symbol{"n"}, passThroughE, nil))
	aug, err := g.Augment(passThroughE, nil)
	assert.NoError(t, err)
	return aug
}

func numberToken(value int) lrtypes.ParseUnit {
	return lrtypes.ParseUnit{Name: "n", Value: value}
}

func plusToken() lrtypes.ParseUnit {
	return lrtypes.ParseUnit{Name: "+"}
}

func Test_Driver_Feed_singleNumberAccepts(t *testing.T) {
	assert := assert.New(t)

	g := sumGrammar(t)
	a, err := automaton.NewBuilder(0, nil).Build(g)
	assert.NoError(err)
	assert.Empty(a.ConflictLog)

	d := New(a.Table)
	assert.NoError(d.Feed(numberToken(7)))
	assert.NoError(d.Finish())
	assert.True(d.Accepted())

	root, ok := d.ParseTree()
	assert.True(ok)
	assert.Equal(7, root.Value)
}

func Test_Driver_Feed_sumOfThree(t *testing.T) {
	assert := assert.New(t)

	g := sumGrammar(t)
	a, err := automaton.NewBuilder(0, nil).Build(g)
	assert.NoError(err)

	d := New(a.Table)
	for _, tok := range []lrtypes.ParseUnit{numberToken(1), plusToken(), numberToken(2), plusToken(), numberToken(3)} {
		assert.NoError(d.Feed(tok))
	}
	assert.NoError(d.Finish())
	assert.True(d.Accepted())

	root, ok := d.ParseTree()
	assert.True(ok)
	assert.Equal(6, root.Value)
	assert.Equal(string(grammar.AugmentedStart), root.Name)
}

func Test_Driver_Feed_syntaxErrorOnUnexpectedToken(t *testing.T) {
	assert := assert.New(t)

	g := sumGrammar(t)
	a, err := automaton.NewBuilder(0, nil).Build(g)
	assert.NoError(err)

	d := New(a.Table)
	assert.NoError(d.Feed(numberToken(1)))
	err = d.Feed(plusToken())
	assert.NoError(err)
	// A second '+' directly after the first is not a legal continuation.
	err = d.Feed(plusToken())
	assert.Error(err)

	var syn *lrerrors.ParseSyntaxError
	assert.ErrorAs(err, &syn)
	assert.False(d.Accepted())
}

func Test_Driver_RegisterTraceListener_receivesLines(t *testing.T) {
	assert := assert.New(t)

	g := sumGrammar(t)
	a, err := automaton.NewBuilder(0, nil).Build(g)
	assert.NoError(err)

	d := New(a.Table)
	var lines []string
	d.RegisterTraceListener(func(s string) { lines = append(lines, s) })

	assert.NoError(d.Feed(numberToken(1)))
	assert.NoError(d.Finish())
	assert.NotEmpty(lines)
}
