package formatter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/grindlemire/go-ngfmt/internal/markup"
)

// Lookahead windows bound how far an inline merge searches for the closing
// tag, so deep nesting cannot make a merge attempt scan the whole document.
const (
	// TightMergeWindow is the token window searched for the matching
	// closing tag when flattening an element with nested content.
	TightMergeWindow = 8
	// ContentMergeWindow is the token window searched for the closing tag
	// of an element holding only text and interpolations.
	ContentMergeWindow = 20
)

const (
	// CompactThresholdFactor scales ShortElementThreshold for elements the
	// author already wrote compactly.
	CompactThresholdFactor = 1.5
	// LongAttributeValueLen is the attribute value length that makes an
	// element's attributes complex.
	LongAttributeValueLen = 20
	// maxSimpleAttributes is the number of key= occurrences an element may
	// carry and still count as simple.
	maxSimpleAttributes = 2
)

var (
	tagGapPattern     = regexp.MustCompile(`>\s+<`)
	nestedTagPattern  = regexp.MustCompile(`<\w`)
	firstTagPattern   = regexp.MustCompile(`<[^>]+>`)
	attributePattern  = regexp.MustCompile(`\s[\w\-:.\[\]()@#*]+=`)
	longValuePattern  = regexp.MustCompile(`="[^"]{20,}"|='[^']{20,}'`)
	inlineOpenPattern = regexp.MustCompile(
		`(?i)(<(?:` + strings.Join(markup.InlineElementNames, "|") + `)(?:\s[^>]*)?>)\s+`)
	inlineClosePattern = regexp.MustCompile(
		`(?i)\s+(</(?:` + strings.Join(markup.InlineElementNames, "|") + `)>)`)
)

// contentMerge joins a start tag, the text and interpolations that follow
// it and its closing tag into one line. It gives up when any other kind of
// token appears first or the closing tag is outside the window.
func (p *printer) contentMerge(tokens []markup.Token, start int) (string, int, bool) {
	open := tokens[start]
	limit := min(start+ContentMergeWindow, len(tokens))

	var parts []markup.Token
	for j := start + 1; j < limit; j++ {
		tok := tokens[j]
		switch {
		case tok.Type == markup.TokenTag && tok.Closing && tok.Name == open.Name:
			element := p.buildElement(open.Literal, parts, tok.Literal)
			if p.shouldKeepInline(element) {
				return element, j + 1, true
			}
			return "", start, false
		case tok.Type == markup.TokenText || tok.Type == markup.TokenInterpolation:
			parts = append(parts, tok)
		default:
			return "", start, false
		}
	}
	return "", start, false
}

// buildElement assembles a single-line element from its content tokens.
// Content the author wrote compactly keeps its original word breaks;
// otherwise parts are separated by single spaces.
func (p *printer) buildElement(open string, parts []markup.Token, closing string) string {
	if len(parts) == 0 {
		return open + closing
	}

	texts := make([]string, len(parts))
	for i, tok := range parts {
		texts[i] = renderInline(tok)
	}

	var content string
	if p.lookupOriginal(open+strings.Join(texts, "")+closing) == matchCompact {
		var sb strings.Builder
		for i, text := range texts {
			if i > 0 && parts[i].SpaceBefore {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
		content = sb.String()
	} else {
		content = strings.Join(texts, " ")
	}
	return open + strings.TrimSpace(content) + closing
}

// tightMerge flattens a start tag and everything up to its matching
// closing tag, nested elements included, when the closing tag is within
// TightMergeWindow tokens.
func (p *printer) tightMerge(tokens []markup.Token, start int) (string, int, bool) {
	open := tokens[start]
	limit := min(start+TightMergeWindow, len(tokens))

	nest := 0
	for j := start + 1; j < limit; j++ {
		tok := tokens[j]
		if tok.Type != markup.TokenTag || tok.Name != open.Name {
			continue
		}
		if !tok.Closing {
			if !markup.IsSelfClosingTag(tok) {
				nest++
			}
			continue
		}
		if nest > 0 {
			nest--
			continue
		}

		element := flatten(tokens[start : j+1])
		if p.shouldKeepInline(element) {
			return element, j + 1, true
		}
		return "", start, false
	}
	return "", start, false
}

// flatten renders tokens as one line: single spaces between tokens, no
// whitespace between adjacent tags, and no padding just inside
// inline-eligible elements.
func flatten(tokens []markup.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = renderInline(tok)
	}
	s := markup.CollapseSpace(strings.Join(parts, " "))
	s = tagGapPattern.ReplaceAllString(s, "><")
	s = inlineOpenPattern.ReplaceAllString(s, "$1")
	return inlineClosePattern.ReplaceAllString(s, "$1")
}

func renderInline(tok markup.Token) string {
	if tok.Type == markup.TokenInterpolation {
		return formatInterpolation(tok.Literal)
	}
	return tok.Literal
}

// shouldKeepInline decides whether a flattened element stays on one line.
// The rules apply in order; the first that matches wins.
func (p *printer) shouldKeepInline(element string) bool {
	if !p.opts.InlineShortElements {
		return false
	}

	// Elements the author spread over lines around nested tags stay expanded.
	if p.opts.PreserveUserMultiline && p.wasOriginallyMultiline(element) {
		return false
	}

	element = strings.TrimSpace(element)
	length := utf8.RuneCountInString(element)
	threshold := p.opts.ShortElementThreshold

	if markup.InlineEligible(markup.TagName(element)) && !hasNestedTags(element) && length <= threshold {
		return true
	}

	if float64(length) <= float64(threshold)*CompactThresholdFactor &&
		p.lookupOriginal(element) == matchCompact {
		return true
	}

	return length*2 <= threshold && !hasComplexAttributes(element)
}

// wasOriginallyMultiline reports whether the element's span in the source
// contained a line break and nested child tags.
func (p *printer) wasOriginallyMultiline(element string) bool {
	openTag := firstTagPattern.FindString(element)
	if openTag == "" || markup.TagName(element) == "" {
		return false
	}
	return p.index.multilineAt(openTag)
}

// hasNestedTags reports whether a tag starts between the element's first >
// and its last <.
func hasNestedTags(element string) bool {
	content, ok := innerContent(element)
	return ok && nestedTagPattern.MatchString(content)
}

// hasComplexAttributes reports whether an element carries many attributes
// or a long attribute value.
func hasComplexAttributes(element string) bool {
	if len(attributePattern.FindAllStringIndex(element, -1)) > maxSimpleAttributes {
		return true
	}
	return longValuePattern.MatchString(element)
}
