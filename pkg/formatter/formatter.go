// Package formatter reformats HTML templates that mix tags, @-control blocks
// and {{ }} interpolations into canonically indented text.
//
// Short elements stay on one line when the author wrote them compactly. The
// formatter is a best-effort re-printer over the markup token stream: it
// never validates tag balance or expression syntax, and it returns output
// for every input.
package formatter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOptions is wrapped by every error returned from Options.Validate.
var ErrInvalidOptions = errors.New("invalid formatting options")

// Options controls indentation and inlining.
type Options struct {
	// IndentSize is the number of spaces per level when UseSpaces is set.
	IndentSize int
	// UseSpaces selects spaces over a single tab per level.
	UseSpaces bool
	// InlineShortElements enables all single-line element collapsing.
	InlineShortElements bool
	// ShortElementThreshold is the length that drives inline eligibility.
	ShortElementThreshold int
	// PreserveUserMultiline keeps elements the author spread across lines
	// with nested tags expanded.
	PreserveUserMultiline bool
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		IndentSize:            4,
		UseSpaces:             true,
		InlineShortElements:   true,
		ShortElementThreshold: 80,
		PreserveUserMultiline: true,
	}
}

// Validate rejects option values that would produce broken indentation.
func (o Options) Validate() error {
	if o.IndentSize <= 0 {
		return fmt.Errorf("%w: indent size must be positive, got %d", ErrInvalidOptions, o.IndentSize)
	}
	if o.ShortElementThreshold <= 0 {
		return fmt.Errorf("%w: short element threshold must be positive, got %d", ErrInvalidOptions, o.ShortElementThreshold)
	}
	return nil
}

// IndentUnit returns the string written once per indentation level.
func (o Options) IndentUnit() string {
	if o.UseSpaces {
		return strings.Repeat(" ", o.IndentSize)
	}
	return "\t"
}

// Format reformats template source. The only error is an invalid Options
// value; malformed markup is always formatted on a best-effort basis.
//
// Whitespace-only input is returned unchanged. Line endings are normalized
// to \n, and the output ends in a newline only if the input did.
func Format(src string, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(src) == "" {
		return src, nil
	}

	normalized := normalizeLineEndings(src)
	source := strings.TrimSpace(normalized)

	out := newPrinter(opts, source).print()
	if strings.HasSuffix(normalized, "\n") {
		out += "\n"
	}
	return out, nil
}

// Result contains the result of formatting a document.
type Result struct {
	// Content is the formatted content.
	Content string
	// Changed indicates if the content was different from the original.
	Changed bool
}

// FormatWithResult formats the source and indicates if it changed.
func FormatWithResult(src string, opts Options) (Result, error) {
	formatted, err := Format(src, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Content: formatted,
		Changed: formatted != src,
	}, nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
