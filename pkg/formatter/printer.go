package formatter

import (
	"strings"

	"github.com/grindlemire/go-ngfmt/internal/markup"
)

// printer lays out a token stream as indented lines. One printer serves one
// Format call.
type printer struct {
	opts   Options
	tokens []markup.Token
	index  *sourceIndex // element lookups into the trimmed, normalized input
	indent string
	depth  int
	lines  []string
}

// newPrinter tokenizes source and indexes its elements.
func newPrinter(opts Options, source string) *printer {
	tokens := markup.Tokenize(source)
	return &printer{
		opts:   opts,
		tokens: tokens,
		index:  newSourceIndex(source, tokens),
		indent: opts.IndentUnit(),
	}
}

// print formats all tokens and returns the joined output lines.
func (p *printer) print() string {
	for i := 0; i < len(p.tokens); {
		i = p.printToken(p.tokens, i)
	}
	return strings.Join(p.lines, "\n")
}

// printToken emits tokens[i], possibly absorbing the tokens that follow it
// into one inline element, and returns the index of the next token.
func (p *printer) printToken(tokens []markup.Token, i int) int {
	tok := tokens[i]

	switch tok.Type {
	case markup.TokenInterpolation:
		p.writeLine(formatInterpolation(tok.Literal))
		return i + 1
	case markup.TokenText:
		if p.isTrailingContent(tokens, i) {
			if tok.SpaceBefore && tokens[i-1].Type == markup.TokenInterpolation {
				p.appendToLine(" ")
			}
			p.appendToLine(tok.Literal)
		} else {
			p.writeLine(tok.Literal)
		}
		return i + 1
	}

	if p.opts.InlineShortElements && markup.IsStartTag(tok) && !markup.IsSelfClosingTag(tok) {
		if line, next, ok := p.contentMerge(tokens, i); ok {
			p.writeLine(line)
			return next
		}
		if line, next, ok := p.tightMerge(tokens, i); ok {
			p.writeLine(line)
			return next
		}
	}

	p.printBlockToken(tok)
	return i + 1
}

// printBlockToken runs the indentation state machine for one token:
// closers dedent before they are written, openers indent after.
func (p *printer) printBlockToken(tok markup.Token) {
	if markup.IsClosingBlock(tok) {
		p.dedent()
	}
	p.writeLine(tok.Literal)
	if markup.IsOpeningBlock(tok) && !markup.IsSelfClosingTag(tok) {
		p.depth++
	}
}

// isTrailingContent reports whether the text at i belongs to the line of
// an inline-eligible start tag: walking back over text and interpolations,
// the first other token must be that tag.
func (p *printer) isTrailingContent(tokens []markup.Token, i int) bool {
	if !p.opts.InlineShortElements || len(p.lines) == 0 {
		return false
	}
	j := i - 1
	for j >= 0 && (tokens[j].Type == markup.TokenText || tokens[j].Type == markup.TokenInterpolation) {
		j--
	}
	if j < 0 {
		return false
	}
	prev := tokens[j]
	return markup.IsStartTag(prev) &&
		!markup.IsSelfClosingTag(prev) &&
		markup.InlineEligible(prev.Name)
}

// Helper methods

func (p *printer) writeLine(s string) {
	p.lines = append(p.lines, strings.Repeat(p.indent, p.depth)+s)
}

func (p *printer) appendToLine(s string) {
	p.lines[len(p.lines)-1] += s
}

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}
