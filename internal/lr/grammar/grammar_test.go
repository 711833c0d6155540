package grammar

import (
	"testing"

	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
	"github.com/stretchr/testify/assert"
)

func Test_Grammar_AddRule_shape(t *testing.T) {
	testCases := []struct {
		name      string
		lhs       Symbol
		rhs       []Symbol
		expectErr bool
	}{
		{
			name: "ordinary rule",
			lhs:  "S",
			rhs:  []Symbol{"a", "b"},
		},
		{
			name:      "empty lhs",
			lhs:       "",
			rhs:       []Symbol{"a"},
			expectErr: true,
		},
		{
			name:      "reserved lhs",
			lhs:       "@weird",
			rhs:       []Symbol{"a"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := Grammar{}
			err := g.AddRule(tc.lhs, tc.rhs, nil, nil)

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Grammar_StartSymbol_isFirstRuleAdded(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{}
	assert.NoError(g.AddRule("S", []Symbol{"a", "T"}, nil, nil))
	assert.NoError(g.AddRule("T", []Symbol{"b"}, nil, nil))

	assert.Equal(Symbol("S"), g.StartSymbol())
}

func Test_Grammar_classify(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{}
	assert.NoError(g.AddRule("S", []Symbol{"a", "T"}, nil, nil))
	assert.NoError(g.AddRule("T", []Symbol{"b"}, nil, nil))

	assert.True(g.IsNonTerminal("S"))
	assert.True(g.IsNonTerminal("T"))
	assert.True(g.IsTerminal("a"))
	assert.True(g.IsTerminal("b"))
	assert.False(g.IsTerminal("S"))

	assert.ElementsMatch([]Symbol{"S", "T"}, g.NonTerminals())
	assert.ElementsMatch([]Symbol{"a", "b"}, g.Terminals())
}

func Test_Grammar_Augment(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{}
	assert.NoError(g.AddRule("S", []Symbol{"a", "b"}, nil, nil))

	aug, err := g.Augment(nil, nil)
	assert.NoError(err)

	assert.True(aug.IsAugmented())
	assert.Equal(2, aug.Len())
	assert.Equal(AugmentedStart, aug.Production(0).LHS)
	assert.Equal([]Symbol{"S"}, aug.Production(0).RHS)
	assert.Equal(Symbol("S"), aug.Production(1).LHS)

	// augmenting twice is illegal (spec §8, testable property 7)
	_, err = aug.Augment(nil, nil)
	assert.Error(err)
}

func Test_Grammar_Augment_emptyGrammarIsSilent(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{}
	aug, err := g.Augment(nil, nil)
	assert.NoError(err)
	assert.True(aug.IsAugmented())
	assert.Equal(0, aug.Len())
}

func Test_Production_Priority(t *testing.T) {
	testCases := []struct {
		name   string
		attrs  map[string]string
		expect int
	}{
		{name: "no attrs", expect: 0},
		{name: "explicit zero", attrs: map[string]string{"priority": "0"}, expect: 0},
		{name: "positive", attrs: map[string]string{"priority": "10"}, expect: 10},
		{name: "malformed falls back to 0", attrs: map[string]string{"priority": "nope"}, expect: 0},
		{name: "negative falls back to 0", attrs: map[string]string{"priority": "-1"}, expect: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := Production{LHS: "S", RHS: []Symbol{"a"}, Attrs: tc.attrs}
			assert.Equal(t, tc.expect, p.Priority())
		})
	}
}

func Test_Production_Equal_ignoresAttrsAndSemantic(t *testing.T) {
	assert := assert.New(t)

	called := false
	cb := func(c []lrtypes.ParseUnit) (any, error) {
		called = true
		return nil, nil
	}

	p1 := Production{LHS: "S", RHS: []Symbol{"a", "b"}, Semantic: cb, Attrs: map[string]string{"priority": "1"}}
	p2 := Production{LHS: "S", RHS: []Symbol{"a", "b"}, Attrs: map[string]string{"priority": "99"}}
	p3 := Production{LHS: "S", RHS: []Symbol{"a"}}

	assert.True(p1.Equal(p2))
	assert.False(p1.Equal(p3))
	assert.False(called)
}
