package indent

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grindlemire/go-ngfmt/pkg/formatter"
)

func TestDetect(t *testing.T) {
	type tc struct {
		input  string
		want   Style
		wantOK bool
	}

	tests := map[string]tc{
		"two spaces": {
			input:  "<div>\n  <p>a</p>\n  <p>b</p>\n</div>",
			want:   Style{IndentSize: 2, UseSpaces: true},
			wantOK: true,
		},
		"nested four spaces": {
			input:  "<div>\n    <ul>\n        <li>a</li>\n    </ul>\n</div>",
			want:   Style{IndentSize: 4, UseSpaces: true},
			wantOK: true,
		},
		"tabs": {
			input:  "<div>\n\t<p>a</p>\n\t<p>b</p>\n</div>",
			want:   Style{IndentSize: 4, UseSpaces: false},
			wantOK: true,
		},
		"spaces win ties": {
			input:  "<div>\n\t<p>a</p>\n  <p>b</p>\n</div>",
			want:   Style{IndentSize: 2, UseSpaces: true},
			wantOK: true,
		},
		"first candidate wins count ties": {
			input:  "a\n   b\n      c",
			want:   Style{IndentSize: 3, UseSpaces: true},
			wantOK: true,
		},
		"odd width falls back": {
			input:  "a\n     b",
			want:   Style{IndentSize: 4, UseSpaces: true},
			wantOK: true,
		},
		"blank indented lines ignored": {
			input:  "<div>\n    \n</div>",
			wantOK: false,
		},
		"flat": {
			input:  "<p>a</p>\n<p>b</p>",
			wantOK: false,
		},
		"empty": {
			input:  "",
			wantOK: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := Detect(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Detect() ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetectLineLimit(t *testing.T) {
	flat := strings.Repeat("<p>x</p>\n", MaxLinesToAnalyze)
	if _, ok := Detect(flat + "  <p>late</p>\n"); ok {
		t.Error("Detect() found indentation past the line limit")
	}
}

func TestDetectSkipsBlankLinesBeforeLimit(t *testing.T) {
	blank := strings.Repeat("\n", 2*MaxLinesToAnalyze)
	got, ok := Detect(blank + "<div>\n  <p>a</p>\n</div>\n")
	if !ok {
		t.Fatal("Detect() ok = false after leading blank lines")
	}
	if diff := cmp.Diff(Style{IndentSize: 2, UseSpaces: true}, got); diff != "" {
		t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
	}
}

func TestStyleApply(t *testing.T) {
	opts := Style{IndentSize: 2, UseSpaces: false}.Apply(formatter.DefaultOptions())
	want := formatter.DefaultOptions()
	want.IndentSize = 2
	want.UseSpaces = false
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}
