// Package indent infers the indentation style already used by a document.
package indent

import (
	"strings"

	"github.com/grindlemire/go-ngfmt/pkg/formatter"
)

// MaxLinesToAnalyze caps how many non-blank lines Detect inspects.
const MaxLinesToAnalyze = 1000

// defaultSize is used for tab-indented documents and when no candidate size
// occurs.
const defaultSize = 4

// candidateSizes are the space widths Detect will report, in tie-break order.
var candidateSizes = []int{2, 3, 4, 6, 8}

// Style is a detected indentation style.
type Style struct {
	IndentSize int
	UseSpaces  bool
}

// Apply returns opts with the indentation fields replaced by s.
func (s Style) Apply(opts formatter.Options) formatter.Options {
	opts.IndentSize = s.IndentSize
	opts.UseSpaces = s.UseSpaces
	return opts
}

// Detect counts tab-led and space-led lines in the first MaxLinesToAnalyze
// non-blank lines of text. Spaces win ties. The reported size is the most
// common leading-space width among the candidate sizes. ok is false when no
// non-blank line is indented.
func Detect(text string) (style Style, ok bool) {
	var tabs, spaces, seen int
	widths := make(map[int]int)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if seen++; seen > MaxLinesToAnalyze {
			break
		}
		lead := leadingSpace(line)
		switch {
		case lead == "":
			continue
		case strings.Contains(lead, "\t"):
			tabs++
		case strings.Contains(lead, " "):
			spaces++
			widths[len(lead)]++
		}
	}

	if tabs+spaces == 0 {
		return Style{}, false
	}

	useSpaces := spaces >= tabs
	return Style{IndentSize: pickSize(widths, useSpaces), UseSpaces: useSpaces}, true
}

func pickSize(widths map[int]int, useSpaces bool) int {
	if !useSpaces || len(widths) == 0 {
		return defaultSize
	}
	best, bestCount := defaultSize, 0
	for _, size := range candidateSizes {
		if n := widths[size]; n > bestCount {
			best, bestCount = size, n
		}
	}
	return best
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t\r\f\v"))]
}
