package grammar

import "strings"

// Symbol is a grammar symbol: a terminal or nonterminal identifier. Names
// beginning with '@' are reserved for the core (spec §3); grammars supplied
// by a caller must not define their own '@'-prefixed symbols other than by
// going through Grammar.Augment.
type Symbol string

// AugmentedStart is the synthetic start symbol prepended by Grammar.Augment.
const AugmentedStart Symbol = "@S"

// EndOfInput is the end-of-input marker a lexer collaborator must never
// produce itself; the driver synthesizes it in Driver.Finish.
const EndOfInput Symbol = "@EOF"

// IsReserved returns whether sym begins with '@', the prefix the core
// reserves for itself.
func (sym Symbol) IsReserved() bool {
	return strings.HasPrefix(string(sym), "@")
}

// String returns sym as a plain string.
func (sym Symbol) String() string {
	return string(sym)
}

// SymbolsString renders a slice of symbols space-separated, e.g. for
// printing a production's right-hand side.
func SymbolsString(syms []Symbol) string {
	var sb strings.Builder
	for i, s := range syms {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(string(s))
	}
	return sb.String()
}
