package formatter

import (
	"strings"
)

// compoundOperators are spaced as a unit, longest first.
var compoundOperators = []string{"===", "!==", "&&", "||", "==", "!=", "<=", ">="}

// formatInterpolation normalizes the expression inside {{ }}: one space
// inside each marker, whitespace runs outside string literals collapsed to
// one space, " | " between pipe segments and single spaces around binary
// operators. Unterminated interpolations are returned unchanged.
func formatInterpolation(lit string) string {
	if len(lit) < 4 || !strings.HasPrefix(lit, "{{") || !strings.HasSuffix(lit, "}}") {
		return lit
	}

	expr := strings.TrimSpace(lit[2 : len(lit)-2])
	if expr == "" {
		return "{{  }}"
	}

	expr = spaceOperators(splitPipes(collapseSpace(expr)))
	return "{{ " + strings.TrimSpace(expr) + " }}"
}

// splitPipes rewrites single | separators as " | ". A || operator is left
// for spaceOperators. Quotes are not tracked, so a pipe inside a string
// literal is split too.
func splitPipes(expr string) string {
	var segments []string
	start := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '|' {
			continue
		}
		if i+1 < len(expr) && expr[i+1] == '|' {
			i++
			continue
		}
		segments = append(segments, strings.TrimSpace(expr[start:i]))
		start = i + 1
	}
	if segments == nil {
		return expr
	}
	segments = append(segments, strings.TrimSpace(expr[start:]))
	return strings.Join(segments, " | ")
}

// spaceOperators puts exactly one space on each side of compound operators
// and around single-character operators that sit directly between two
// operands. Text inside quotes is copied verbatim.
func spaceOperators(expr string) string {
	var sb strings.Builder
	sb.Grow(len(expr) + 8)

	var inSingle, inDouble bool
	for i := 0; i < len(expr); {
		c := expr[i]
		if c == '\'' && !inDouble && !escaped(expr, i) {
			inSingle = !inSingle
		} else if c == '"' && !inSingle && !escaped(expr, i) {
			inDouble = !inDouble
		}
		if inSingle || inDouble || c == '\'' || c == '"' {
			sb.WriteByte(c)
			i++
			continue
		}

		if op := compoundAt(expr, i); op != "" {
			out := strings.TrimRight(sb.String(), " ")
			sb.Reset()
			sb.WriteString(out)
			sb.WriteString(" " + op + " ")
			i += len(op)
			for i < len(expr) && expr[i] == ' ' {
				i++
			}
			continue
		}

		if strings.IndexByte("+-*/<>", c) >= 0 &&
			i > 0 && i+1 < len(expr) &&
			expr[i-1] != ' ' && expr[i+1] != ' ' {
			sb.WriteString(" " + string(c) + " ")
			i++
			continue
		}

		sb.WriteByte(c)
		i++
	}
	return sb.String()
}

// collapseSpace replaces each whitespace run outside quotes with a single
// space, so an expression written across lines prints on one.
func collapseSpace(expr string) string {
	var sb strings.Builder
	sb.Grow(len(expr))

	var inSingle, inDouble, pendingSpace bool
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if !inSingle && !inDouble && isSpaceByte(c) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		if c == '\'' && !inDouble && !escaped(expr, i) {
			inSingle = !inSingle
		} else if c == '"' && !inSingle && !escaped(expr, i) {
			inDouble = !inDouble
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func compoundAt(expr string, i int) string {
	for _, op := range compoundOperators {
		if strings.HasPrefix(expr[i:], op) {
			return op
		}
	}
	return ""
}

func escaped(s string, i int) bool {
	return i > 0 && s[i-1] == '\\'
}
