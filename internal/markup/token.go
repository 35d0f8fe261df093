package markup

import "fmt"

// TokenType represents the kind of a markup token.
type TokenType int

const (
	TokenText          TokenType = iota // text run, whitespace collapsed
	TokenTag                            // <div ...>, </div>, <br/>, <!-- -->
	TokenControlBlock                   // @if (x) {, @else {, @}
	TokenCloseBrace                     // }
	TokenInterpolation                  // {{ expr }}
)

var tokenNames = map[TokenType]string{
	TokenText:          "Text",
	TokenTag:           "Tag",
	TokenControlBlock:  "ControlBlock",
	TokenCloseBrace:    "CloseBrace",
	TokenInterpolation: "Interpolation",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token is one classified unit of a template.
type Token struct {
	Type    TokenType
	Literal string

	// Name is the lower-cased tag name for tags and the keyword for control
	// blocks ("}" for the @} close marker).
	Name string

	// Closing is set for </name> tags.
	Closing bool

	// SelfClosing is set for tags written as <name ... />.
	SelfClosing bool

	// SpaceBefore reports whether whitespace preceded the token in the source.
	SpaceBefore bool

	// Pos and End are the byte offsets of the token's raw text in the
	// source passed to Tokenize.
	Pos, End int
}

// String implements fmt.Stringer for debugging and test failure output.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// Literals returns the literal text of each token.
func Literals(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Literal
	}
	return out
}
