package formatter

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/grindlemire/go-ngfmt/internal/markup"
)

// SimilarPrefixLen is the number of leading runes compared when matching a
// rebuilt element against candidate source elements.
const SimilarPrefixLen = 30

// sourceMatch describes how an element appeared in the original source.
type sourceMatch int

const (
	// matchNone means the element could not be located in the source.
	matchNone sourceMatch = iota
	// matchCompact means the element's content was written on one line with
	// no padding inside its tags.
	matchCompact
	// matchExpanded means the element was found but its content was padded
	// or spread over lines.
	matchExpanded
)

// span is one element of the source, from the start of its opening tag to
// the end of its closing tag.
type span struct {
	start, end        int
	innerStart, inner int
	prefix            string
	multiline         bool
	checked           bool
}

// sourceIndex locates elements of the source without rescanning it. Keys
// are lower-cased with all whitespace removed, so a rebuilt element finds
// its source whatever spacing either side uses.
type sourceIndex struct {
	source string

	// byKey maps an element's key to its first occurrence. Only elements a
	// merge can rebuild are keyed.
	byKey map[string]*span
	// byOpen maps an opening tag's key to the first element it opens.
	byOpen map[string]*span
	// byName lists elements by tag name in document order.
	byName map[string][]*span

	fuzzy map[string]sourceMatch
}

// newSourceIndex pairs the start and closing tags of tokens, which must
// have been read from source. A closing tag pairs with the nearest
// unclosed start tag of the same name.
func newSourceIndex(source string, tokens []markup.Token) *sourceIndex {
	idx := &sourceIndex{
		source: source,
		byKey:  make(map[string]*span),
		byOpen: make(map[string]*span),
		byName: make(map[string][]*span),
		fuzzy:  make(map[string]sourceMatch),
	}

	open := make(map[string][]int)
	for i, tok := range tokens {
		switch {
		case markup.IsStartTag(tok) && !markup.IsSelfClosingTag(tok):
			open[tok.Name] = append(open[tok.Name], i)
		case tok.Type == markup.TokenTag && tok.Closing:
			stack := open[tok.Name]
			if len(stack) == 0 {
				continue
			}
			j := stack[len(stack)-1]
			open[tok.Name] = stack[:len(stack)-1]
			idx.add(tokens[j], tok, i-j < max(TightMergeWindow, ContentMergeWindow))
		}
	}

	for _, spans := range idx.byName {
		slices.SortFunc(spans, func(a, b *span) int { return cmp.Compare(a.start, b.start) })
	}
	return idx
}

func (idx *sourceIndex) add(open, closing markup.Token, keyed bool) {
	s := &span{
		start:      open.Pos,
		end:        closing.End,
		innerStart: open.End,
		inner:      closing.Pos,
	}
	s.prefix = collapsedPrefix(idx.source[s.innerStart:s.inner], SimilarPrefixLen)

	if keyed {
		setFirst(idx.byKey, squash(idx.source[s.start:s.end]), s)
	}
	setFirst(idx.byOpen, squash(idx.source[s.start:s.innerStart]), s)
	idx.byName[open.Name] = append(idx.byName[open.Name], s)
}

func setFirst(m map[string]*span, key string, s *span) {
	if prev, ok := m[key]; !ok || s.start < prev.start {
		m[key] = s
	}
}

// content returns the source between the element's tags.
func (idx *sourceIndex) content(s *span) string {
	return idx.source[s.innerStart:s.inner]
}

// lookupOriginal locates an element in the source and reports how the
// author wrote it. A direct match ignores whitespace and case; failing
// that, source elements with the same name whose content resembles the
// element's are compared.
//
// Identical markup repeated in one document always resolves to its first
// occurrence, so a compact copy can be classified by an expanded twin.
func (p *printer) lookupOriginal(element string) sourceMatch {
	element = strings.TrimSpace(element)
	if element == "" {
		return matchNone
	}
	idx := p.index

	if s, ok := idx.byKey[squash(element)]; ok {
		return classify(idx.content(s))
	}

	name := markup.TagName(element)
	want, ok := innerContent(element)
	if name == "" || !ok {
		return matchNone
	}

	want = collapsedPrefix(want, SimilarPrefixLen)
	key := name + "\x00" + want
	if m, ok := idx.fuzzy[key]; ok {
		return m
	}
	m := matchNone
	for _, s := range idx.byName[name] {
		if similar(s.prefix, want) {
			m = classify(idx.content(s))
			break
		}
	}
	idx.fuzzy[key] = m
	return m
}

// multilineAt reports whether the first element opened by openTag spanned
// lines and held nested tags.
func (idx *sourceIndex) multilineAt(openTag string) bool {
	s, ok := idx.byOpen[squash(openTag)]
	if !ok {
		return false
	}
	if !s.checked {
		s.multiline = strings.Contains(idx.source[s.start:s.end], "\n") &&
			nestedTagPattern.MatchString(idx.content(s))
		s.checked = true
	}
	return s.multiline
}

// classify reports whether source content was written compactly.
func classify(content string) sourceMatch {
	if content == strings.TrimSpace(content) && !strings.Contains(content, "\n") {
		return matchCompact
	}
	return matchExpanded
}

// similar compares two collapsed prefixes in either direction.
func similar(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// collapsedPrefix returns the first n runes of s with whitespace runs
// collapsed to single spaces and the ends trimmed. It reads only as much of
// s as it needs.
func collapsedPrefix(s string, n int) string {
	var sb strings.Builder
	count := 0
	pendingSpace := false
	for _, r := range s {
		if count >= n {
			break
		}
		if unicode.IsSpace(r) {
			pendingSpace = count > 0
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			count++
			pendingSpace = false
			if count >= n {
				break
			}
		}
		sb.WriteRune(r)
		count++
	}
	return sb.String()
}

// squash lower-cases s and drops all whitespace.
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// innerContent returns the text between the first > and the last < of an
// element.
func innerContent(element string) (string, bool) {
	start := strings.IndexByte(element, '>')
	end := strings.LastIndexByte(element, '<')
	if start < 0 || end <= start {
		return "", false
	}
	return element[start+1 : end], true
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
