package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTokenize(t *testing.T) {
	type tc struct {
		input string
		want  []Token
	}

	tests := map[string]tc{
		"element with text": {
			input: "<div>hello</div>",
			want: []Token{
				{Type: TokenTag, Literal: "<div>", Name: "div"},
				{Type: TokenText, Literal: "hello"},
				{Type: TokenTag, Literal: "</div>", Name: "div", Closing: true},
			},
		},
		"quoted greater-than inside attribute": {
			input: `<button title="a > b">x</button>`,
			want: []Token{
				{Type: TokenTag, Literal: `<button title="a > b">`, Name: "button"},
				{Type: TokenText, Literal: "x"},
				{Type: TokenTag, Literal: "</button>", Name: "button", Closing: true},
			},
		},
		"control block with close brace": {
			input: "@if (a > b) {\n  x\n}",
			want: []Token{
				{Type: TokenControlBlock, Literal: "@if (a > b) {", Name: "if"},
				{Type: TokenText, Literal: "x", SpaceBefore: true},
				{Type: TokenCloseBrace, Literal: "}", Name: "}", SpaceBefore: true},
			},
		},
		"control close marker": {
			input: "@}",
			want: []Token{
				{Type: TokenControlBlock, Literal: "@}", Name: "}"},
			},
		},
		"nested interpolation stays whole": {
			input: "{{ a({{b}}) }}",
			want: []Token{
				{Type: TokenInterpolation, Literal: "{{ a({{b}}) }}"},
			},
		},
		"interpolation with braces inside": {
			input: "<p>{{ {a: 1} }}</p>",
			want: []Token{
				{Type: TokenTag, Literal: "<p>", Name: "p"},
				{Type: TokenInterpolation, Literal: "{{ {a: 1} }}"},
				{Type: TokenTag, Literal: "</p>", Name: "p", Closing: true},
			},
		},
		"stray double close marker": {
			input: "a}}b",
			want: []Token{
				{Type: TokenText, Literal: "a"},
				{Type: TokenCloseBrace, Literal: "}", Name: "}"},
				{Type: TokenCloseBrace, Literal: "}", Name: "}"},
				{Type: TokenText, Literal: "b"},
			},
		},
		"text whitespace collapsed": {
			input: "  hello \n\t world  ",
			want: []Token{
				{Type: TokenText, Literal: "hello world", SpaceBefore: true},
			},
		},
		"unterminated tag runs to end": {
			input: `<input value="x`,
			want: []Token{
				{Type: TokenTag, Literal: `<input value="x`, Name: "input"},
			},
		},
		"unterminated interpolation runs to end": {
			input: "<p>{{ name",
			want: []Token{
				{Type: TokenTag, Literal: "<p>", Name: "p"},
				{Type: TokenInterpolation, Literal: "{{ name"},
			},
		},
		"comment with quote": {
			input: "<!-- don't -->\n<br/>",
			want: []Token{
				{Type: TokenTag, Literal: "<!-- don't -->", Name: "!--"},
				{Type: TokenTag, Literal: "<br/>", Name: "br", SelfClosing: true, SpaceBefore: true},
			},
		},
		"tag whitespace normalized": {
			input: "<DIV\n    class=\"a  b\"\n    id=\"x\"  >",
			want: []Token{
				{Type: TokenTag, Literal: `<DIV class="a  b" id="x">`, Name: "div"},
			},
		},
		"at sign without keyword is text": {
			input: "mail me @home",
			want: []Token{
				{Type: TokenText, Literal: "mail me @home"},
			},
		},
		"interpolation spacing recorded": {
			input: "<span>Hi {{name}}</span>",
			want: []Token{
				{Type: TokenTag, Literal: "<span>", Name: "span"},
				{Type: TokenText, Literal: "Hi"},
				{Type: TokenInterpolation, Literal: "{{name}}", SpaceBefore: true},
				{Type: TokenTag, Literal: "</span>", Name: "span", Closing: true},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(Token{}, "Pos", "End")); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenizeSpans(t *testing.T) {
	input := "<div  class=\"a\">\n  Hi  there {{ name }}\n  @if (x) {@}}</div>"
	want := []string{
		"<div  class=\"a\">",
		"Hi  there",
		"{{ name }}",
		"@if (x) {",
		"@}",
		"}",
		"</div>",
	}

	var got []string
	for _, tok := range Tokenize(input) {
		got = append(got, input[tok.Pos:tok.End])
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token spans mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		if got := Tokenize(input); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %v, want no tokens", input, got)
		}
	}
}

func TestTokenizePreservesOrder(t *testing.T) {
	input := `@for (item of items; track item.id) {<li class="row">{{ item.name }}</li>}`
	want := []string{
		"@for (item of items; track item.id) {",
		`<li class="row">`,
		"{{ item.name }}",
		"</li>",
		"}",
	}
	if diff := cmp.Diff(want, Literals(Tokenize(input))); diff != "" {
		t.Errorf("Literals mismatch (-want +got):\n%s", diff)
	}
}

func TestCollapseSpace(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"empty":        {input: "", want: ""},
		"only spaces":  {input: " \t\n ", want: ""},
		"inner runs":   {input: "a \n\n  b\tc", want: "a b c"},
		"already tidy": {input: "a b", want: "a b"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := CollapseSpace(tt.input); got != tt.want {
				t.Errorf("CollapseSpace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	if got := TokenInterpolation.String(); got != "Interpolation" {
		t.Errorf("TokenInterpolation.String() = %q, want %q", got, "Interpolation")
	}
	if got := TokenType(42).String(); got != "TokenType(42)" {
		t.Errorf("TokenType(42).String() = %q, want %q", got, "TokenType(42)")
	}
}
