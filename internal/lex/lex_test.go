package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Lexer_Lex_classifiesAndTracksPosition(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer()
	assert.NoError(lx.AddSkipPattern("@ws", `\s+`))
	assert.NoError(lx.AddPattern("n", `[0-9]+`))
	assert.NoError(lx.AddPattern("+", `\+`))

	toks, err := lx.Lex("12 + 7")
	assert.NoError(err)
	assert.Len(toks, 3)

	assert.Equal("n", toks[0].Name)
	assert.Equal(1, toks[0].Position.Line)
	assert.Equal(1, toks[0].Position.Col)

	assert.Equal("+", toks[1].Name)
	assert.Equal(4, toks[1].Position.Col)

	assert.Equal("n", toks[2].Name)
	assert.Equal("7", toks[2].Value)
}

func Test_Lexer_Lex_trackLineNumbers(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer()
	assert.NoError(lx.AddSkipPattern("@ws", `\s+`))
	assert.NoError(lx.AddPattern("n", `[0-9]+`))

	toks, err := lx.Lex("1\n2")
	assert.NoError(err)
	assert.Len(toks, 2)
	assert.Equal(1, toks[0].Position.Line)
	assert.Equal(2, toks[1].Position.Line)
}

func Test_Lexer_Lex_earlierRuleWinsTies(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer()
	assert.NoError(lx.AddPattern("keyword", `if`))
	assert.NoError(lx.AddPattern("id", `[a-z]+`))

	toks, err := lx.Lex("if")
	assert.NoError(err)
	assert.Len(toks, 1)
	assert.Equal("keyword", toks[0].Name)
}

func Test_Lexer_Lex_unrecognizedInput(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer()
	assert.NoError(lx.AddPattern("n", `[0-9]+`))

	_, err := lx.Lex("?")
	assert.Error(err)
}

func Test_Split_handlesMathExpression(t *testing.T) {
	assert := assert.New(t)

	lx := Split()
	toks, err := lx.Lex("1 + 2 * (3 - 4) / 5")
	assert.NoError(err)

	var names []string
	for _, tok := range toks {
		names = append(names, tok.Name)
	}
	assert.Equal([]string{"n", "+", "n", "*", "(", "n", "-", "n", ")", "/", "n"}, names)
}
