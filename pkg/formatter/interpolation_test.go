package formatter

import "testing"

func TestFormatInterpolation(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"pads markers":              {input: "{{foo}}", want: "{{ foo }}"},
		"trims interior":            {input: "{{   foo   }}", want: "{{ foo }}"},
		"empty":                     {input: "{{}}", want: "{{  }}"},
		"blank":                     {input: "{{    }}", want: "{{  }}"},
		"pipe":                      {input: "{{a|b}}", want: "{{ a | b }}"},
		"pipe chain with args":      {input: "{{ date|format:'short'|upper }}", want: "{{ date | format:'short' | upper }}"},
		"strict equality":           {input: "{{a===b}}", want: "{{ a === b }}"},
		"strict inequality":         {input: "{{a!==b}}", want: "{{ a !== b }}"},
		"logical operators":         {input: "{{a&&b||c}}", want: "{{ a && b || c }}"},
		"compound normalizes space": {input: "{{ a  ==   b }}", want: "{{ a == b }}"},
		"comparison":                {input: "{{a<=b}}", want: "{{ a <= b }}"},
		"arithmetic":                {input: "{{a+b*c}}", want: "{{ a + b * c }}"},
		"already spaced":            {input: "{{ a + b }}", want: "{{ a + b }}"},
		"leading unary minus":       {input: "{{-1}}", want: "{{ -1 }}"},
		"quoted operators":          {input: "{{ 'a>=b' }}", want: "{{ 'a>=b' }}"},
		"double quoted operators":   {input: `{{ "x+y" }}`, want: `{{ "x+y" }}`},
		"escaped quote":             {input: `{{ 'it\'s+' + x }}`, want: `{{ 'it\'s+' + x }}`},
		"mixed quote kinds":         {input: `{{ "it's"+a }}`, want: `{{ "it's" + a }}`},
		"pipe inside string":        {input: `{{ "x|y" }}`, want: `{{ "x | y" }}`},
		"multi-line expression":     {input: "{{ a &&\n         b }}", want: "{{ a && b }}"},
		"tabs and newlines":         {input: "{{a\n+\tb}}", want: "{{ a + b }}"},
		"quoted whitespace kept":    {input: "{{ 'a  b'\n  |  upper }}", want: "{{ 'a  b' | upper }}"},
		"unterminated":              {input: "{{ a+b", want: "{{ a+b"},
		"too short":                 {input: "{{}", want: "{{}"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := formatInterpolation(tt.input)
			if got != tt.want {
				t.Errorf("formatInterpolation(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := formatInterpolation(got); again != got {
				t.Errorf("formatInterpolation(%q) = %q, not idempotent", got, again)
			}
		})
	}
}

func TestSplitPipes(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"no pipe":     {input: "a", want: "a"},
		"logical or":  {input: "a||b", want: "a||b"},
		"two pipes":   {input: "a|b |  c", want: "a | b | c"},
		"or and pipe": {input: "(a||b)|json", want: "(a||b) | json"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := splitPipes(tt.input); got != tt.want {
				t.Errorf("splitPipes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
