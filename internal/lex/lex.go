// Package lex is a minimal external lexer collaborator: it classifies
// runs of input text against an ordered list of regular expressions and
// produces the ParseUnit stream a driver.Driver can be fed. It is kept
// deliberately thin (no lexer states, no DFA compilation) and is never
// imported by the core packages (grammar, item, closure, automaton,
// table, conflict, driver) — only by tests and the cmd/lrforge demo.
package lex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dekarrin/lrforge/internal/lr/lrtypes"
)

// Rule is one classification pattern: the Rule whose Pattern gives the
// longest match at the current input position wins, and among equally long
// matches the one registered first wins. A Rule
// whose Skip is true is still matched for and consumed, but produces no
// ParseUnit (for whitespace and comments).
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Skip    bool
}

// Lexer scans source text into terminal ParseUnits using an ordered list of
// Rules. The zero value has no rules; use NewLexer or AddRule/AddPattern to
// populate it.
type Lexer struct {
	rules []Rule
}

// NewLexer returns an empty Lexer.
func NewLexer() *Lexer {
	return &Lexer{}
}

// AddPattern compiles pat and appends a Rule named name to the lexer's
// ordered rule list. Earlier rules take priority over later ones when both
// match equally long text at the same position; a longer match wins
// regardless of order.
func (lx *Lexer) AddPattern(name, pat string) error {
	compiled, err := regexp.Compile("^(?:" + pat + ")")
	if err != nil {
		return fmt.Errorf("lex: rule %q: %w", name, err)
	}
	lx.rules = append(lx.rules, Rule{Name: name, Pattern: compiled})
	return nil
}

// AddSkipPattern is like AddPattern but the matched text produces no
// ParseUnit (for whitespace, comments).
func (lx *Lexer) AddSkipPattern(name, pat string) error {
	compiled, err := regexp.Compile("^(?:" + pat + ")")
	if err != nil {
		return fmt.Errorf("lex: rule %q: %w", name, err)
	}
	lx.rules = append(lx.rules, Rule{Name: name, Pattern: compiled, Skip: true})
	return nil
}

// UnrecognizedInputError reports that no rule matched at a given position.
type UnrecognizedInputError struct {
	Line, Col int
	Remaining string
}

func (e *UnrecognizedInputError) Error() string {
	snippet := e.Remaining
	if len(snippet) > 20 {
		snippet = snippet[:20] + "..."
	}
	return fmt.Sprintf("lex: %d:%d: no rule matches %q", e.Line, e.Col, snippet)
}

// Lex scans all of src and returns the resulting terminal ParseUnits in
// order, not including a trailing @EOF (the driver synthesizes that
// itself in Finish). Every Name starting with '@' is reserved by the core,
// so no registered Rule should produce one.
func (lx *Lexer) Lex(src string) ([]lrtypes.ParseUnit, error) {
	var out []lrtypes.ParseUnit

	line, col := 1, 1
	for len(src) > 0 {
		matchLen := -1
		var matchRule Rule

		for _, r := range lx.rules {
			loc := r.Pattern.FindStringIndex(src)
			if loc == nil || loc[0] != 0 {
				continue
			}
			if loc[1] > matchLen {
				matchLen = loc[1]
				matchRule = r
			}
		}

		if matchLen <= 0 {
			return nil, &UnrecognizedInputError{Line: line, Col: col, Remaining: src}
		}

		lexeme := src[:matchLen]
		if !matchRule.Skip {
			out = append(out, lrtypes.ParseUnit{
				Name:     matchRule.Name,
				Position: lrtypes.Position{Line: line, Col: col},
				Value:    lexeme,
			})
		}

		advanceLine, advanceCol := line, col
		for _, r := range lexeme {
			if r == '\n' {
				advanceLine++
				advanceCol = 1
			} else {
				advanceCol++
			}
		}
		line, col = advanceLine, advanceCol
		src = src[matchLen:]
	}

	return out, nil
}

// Split is a convenience constructor for tests and demos: it builds a
// Lexer that skips runs of whitespace and classifies numbers (with an
// optional fractional part) as "n", identifiers as "id", and each of
// + - * / ( ) = , as a terminal named by that character. It
// exists because most of this module's example grammars use single-token
// symbols like "n" or "+" rather than needing real regex classification.
func Split() *Lexer {
	lx := NewLexer()
	_ = lx.AddSkipPattern("@ws", `\s+`)
	_ = lx.AddPattern("n", `[0-9]+(\.[0-9]+)?`)
	_ = lx.AddPattern("id", `[A-Za-z_][A-Za-z0-9_]*`)
	for _, sym := range []string{`\+`, `-`, `\*`, `/`, `\(`, `\)`, `=`, `,`} {
		name := strings.TrimPrefix(sym, `\`)
		_ = lx.AddPattern(name, sym)
	}
	return lx
}
