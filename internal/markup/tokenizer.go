package markup

import (
	"strings"
)

const (
	interpOpen    = "{{"
	interpClose   = "}}"
	controlMarker = '@'
	blockClose    = "@}"
	commentOpen   = "<!--"
	commentClose  = "-->"
	spaceChars    = " \t\n\r\f\v"
)

// controlKeywords are the words that, prefixed by @, start a control block.
var controlKeywords = []string{
	"if", "else", "for", "switch", "case", "default",
	"defer", "loading", "error", "placeholder",
}

// Tokenize splits template source into an ordered token stream.
//
// The scan never fails: unterminated tags, blocks and interpolations run to
// the end of the input and whitespace-only text between tokens is dropped.
func Tokenize(src string) []Token {
	t := &tokenizer{src: src, textStart: -1}
	t.run()
	return t.tokens
}

// tokenizer holds the scan state for a single Tokenize call.
type tokenizer struct {
	src       string
	pos       int
	textStart int // start of the pending text run, -1 if none
	tokens    []Token
}

func (t *tokenizer) run() {
	for t.pos < len(t.src) {
		rest := t.src[t.pos:]
		switch {
		case strings.HasPrefix(rest, interpOpen):
			t.flushText()
			t.readInterpolation()
		case t.atControlStart():
			t.flushText()
			t.readControlBlock()
		case rest[0] == '}' && !t.afterMarker():
			t.flushText()
			t.emit(Token{Type: TokenCloseBrace, Literal: "}", Name: "}"}, t.pos, t.pos+1)
			t.pos++
		case rest[0] == '<':
			t.flushText()
			t.readTag()
		default:
			if t.textStart < 0 {
				t.textStart = t.pos
			}
			t.pos++
		}
	}
	t.flushText()
}

// emit appends tok spanning src[start:end], recording whether whitespace
// preceded it.
func (t *tokenizer) emit(tok Token, start, end int) {
	tok.Pos, tok.End = start, end
	tok.SpaceBefore = start > 0 && isSpace(t.src[start-1])
	t.tokens = append(t.tokens, tok)
}

// flushText turns the pending text run into a token. Runs that are only
// whitespace are discarded.
func (t *tokenizer) flushText() {
	if t.textStart < 0 {
		return
	}
	start := t.textStart
	raw := t.src[start:t.pos]
	t.textStart = -1

	text := CollapseSpace(raw)
	if text == "" {
		return
	}
	lead := len(raw) - len(strings.TrimLeft(raw, spaceChars))
	trail := len(raw) - len(strings.TrimRight(raw, spaceChars))
	t.emit(Token{Type: TokenText, Literal: text}, start+lead, t.pos-trail)
}

func (t *tokenizer) afterMarker() bool {
	return t.pos > 0 && t.src[t.pos-1] == controlMarker
}

func (t *tokenizer) atControlStart() bool {
	return t.src[t.pos] == controlMarker && t.controlKeyword() != ""
}

// controlKeyword returns the keyword at the current @, "}" for the @} close
// marker, or "" if the @ does not start a control block.
func (t *tokenizer) controlKeyword() string {
	rest := t.src[t.pos:]
	if strings.HasPrefix(rest, blockClose) {
		return "}"
	}
	for _, kw := range controlKeywords {
		if strings.HasPrefix(rest[1:], kw) {
			return kw
		}
	}
	return ""
}

// readInterpolation consumes {{ ... }} as one token, counting nested
// open/close markers so that {{ a({{b}}) }} stays whole.
func (t *tokenizer) readInterpolation() {
	start := t.pos
	depth := 0
	i := t.pos
	for i < len(t.src) {
		rest := t.src[i:]
		if strings.HasPrefix(rest, interpOpen) {
			depth++
			i += len(interpOpen)
			continue
		}
		if strings.HasPrefix(rest, interpClose) {
			depth--
			i += len(interpClose)
			if depth == 0 {
				break
			}
			continue
		}
		i++
	}
	t.emit(Token{Type: TokenInterpolation, Literal: t.src[start:i]}, start, i)
	t.pos = i
}

// readControlBlock consumes a control block header up to and including its
// opening brace, or the two-character @} close marker.
func (t *tokenizer) readControlBlock() {
	start := t.pos
	kw := t.controlKeyword()
	if kw == "}" {
		t.emit(Token{Type: TokenControlBlock, Literal: blockClose, Name: "}"}, start, start+len(blockClose))
		t.pos += len(blockClose)
		return
	}

	i := start
	for i < len(t.src) && t.src[i] != '{' {
		i++
	}
	if i < len(t.src) {
		i++ // include the brace
	}
	t.emit(Token{
		Type:    TokenControlBlock,
		Literal: CollapseSpace(t.src[start:i]),
		Name:    kw,
	}, start, i)
	t.pos = i
}

// readTag consumes a tag up to the first > outside quoted attribute values.
// Comments run to their --> terminator.
func (t *tokenizer) readTag() {
	start := t.pos
	if strings.HasPrefix(t.src[start:], commentOpen) {
		end := strings.Index(t.src[start+len(commentOpen):], commentClose)
		if end < 0 {
			t.pos = len(t.src)
		} else {
			t.pos = start + len(commentOpen) + end + len(commentClose)
		}
		t.emit(Token{Type: TokenTag, Literal: t.src[start:t.pos], Name: "!--"}, start, t.pos)
		return
	}

	var inSingle, inDouble bool
	i := start + 1
	for i < len(t.src) {
		c := t.src[i]
		switch {
		case c == '\'' && !inDouble && t.src[i-1] != '\\':
			inSingle = !inSingle
		case c == '"' && !inSingle && t.src[i-1] != '\\':
			inDouble = !inDouble
		case c == '>' && !inSingle && !inDouble:
			i++
			t.emitTag(start, i)
			return
		}
		i++
	}
	t.emitTag(start, i)
}

func (t *tokenizer) emitTag(start, end int) {
	t.pos = end
	literal := normalizeTag(t.src[start:end])
	name, closing := parseTagName(literal)
	t.emit(Token{
		Type:        TokenTag,
		Literal:     literal,
		Name:        name,
		Closing:     closing,
		SelfClosing: strings.HasSuffix(literal, "/>"),
	}, start, end)
}

// parseTagName extracts the lower-cased element name of a tag literal and
// whether it is a closing tag.
func parseTagName(literal string) (name string, closing bool) {
	s := strings.TrimPrefix(literal, "<")
	if strings.HasPrefix(s, "/") {
		closing = true
		s = s[1:]
	}
	end := 0
	for end < len(s) && !isSpace(s[end]) && s[end] != '>' && s[end] != '/' {
		end++
	}
	return strings.ToLower(s[:end]), closing
}

// normalizeTag collapses whitespace runs outside quoted attribute values to
// a single space and drops a space left before a plain closing >.
func normalizeTag(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))

	var inSingle, inDouble, pendingSpace bool
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		quoted := inSingle || inDouble
		if !quoted && isSpace(c) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		switch {
		case c == '\'' && !inDouble && (i == 0 || raw[i-1] != '\\'):
			inSingle = !inSingle
		case c == '"' && !inSingle && (i == 0 || raw[i-1] != '\\'):
			inDouble = !inDouble
		}
		sb.WriteByte(c)
	}

	s := sb.String()
	if strings.HasSuffix(s, " >") {
		s = s[:len(s)-2] + ">"
	}
	return s
}

// CollapseSpace trims s and replaces internal whitespace runs with a single
// space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
