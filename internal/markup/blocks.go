package markup

import (
	"regexp"
	"strings"
)

// voidElements have no closing tag and never hold children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// inlineElements may be collapsed onto one line when short.
var inlineElements = map[string]bool{
	"p": true, "span": true, "a": true, "strong": true, "em": true,
	"b": true, "i": true, "small": true, "label": true, "button": true,
	"li": true,
}

// InlineElementNames is the inline-eligible name set in a stable order.
var InlineElementNames = []string{
	"p", "span", "a", "strong", "em", "b", "i", "small", "label", "button", "li",
}

var (
	controlHeaderPattern = regexp.MustCompile(
		`@(?:if|else|for|switch|case|default|defer|loading|error|placeholder)\s*(\([^)]*\))?\s*\{`)
	tagNamePattern = regexp.MustCompile(`<([A-Za-z][\w\-:.]*)`)
)

// IsOpeningBlock reports whether tok opens a nesting level: a control block
// header, any line ending in {, or an element start tag that has children.
// Interpolations in a tag's attributes do not affect the result.
func IsOpeningBlock(tok Token) bool {
	if tok.Type == TokenTag {
		return !tok.Closing && isElementName(tok.Name) && !IsSelfClosingTag(tok)
	}
	if IsInterpolation(tok) {
		return false
	}

	lit := strings.TrimSpace(tok.Literal)
	if controlHeaderPattern.MatchString(lit) {
		return true
	}
	return strings.HasSuffix(lit, "{") && !strings.Contains(lit, blockClose)
}

// IsClosingBlock reports whether tok closes a nesting level.
func IsClosingBlock(tok Token) bool {
	if tok.Type == TokenTag {
		return tok.Closing && strings.HasSuffix(tok.Literal, ">")
	}
	if IsInterpolation(tok) {
		return false
	}
	lit := strings.TrimSpace(tok.Literal)
	return lit == blockClose || lit == "}"
}

// IsSelfClosingTag reports whether tok is a tag without children, either
// written as <x/> or a void element.
func IsSelfClosingTag(tok Token) bool {
	if tok.Type != TokenTag {
		return false
	}
	return strings.HasSuffix(tok.Literal, "/>") || voidElements[tok.Name]
}

// IsInterpolation reports whether tok contains both interpolation markers.
func IsInterpolation(tok Token) bool {
	return strings.Contains(tok.Literal, interpOpen) && strings.Contains(tok.Literal, interpClose)
}

// IsStartTag reports whether tok is an element start tag (including void
// and self-closing ones).
func IsStartTag(tok Token) bool {
	return tok.Type == TokenTag && !tok.Closing && isElementName(tok.Name)
}

// InlineEligible reports whether elements named name may be collapsed onto a
// single line.
func InlineEligible(name string) bool {
	return inlineElements[strings.ToLower(name)]
}

// TagName returns the lower-cased name of the first tag in s, or "".
func TagName(s string) string {
	m := tagNamePattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// ClosingTag returns the closing tag for an element name.
func ClosingTag(name string) string {
	return "</" + name + ">"
}

func isElementName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
