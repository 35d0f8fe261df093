package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grindlemire/go-ngfmt/pkg/formatter"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestDecode(t *testing.T) {
	type tc struct {
		input   string
		doc     string
		want    formatter.Options
		wantErr bool
	}

	tests := map[string]tc{
		"empty file uses defaults": {
			input: "",
			want:  formatter.DefaultOptions(),
		},
		"explicit keys": {
			input: "indent_size: 2\ninline_short_elements: false\nshort_element_threshold: 60\n",
			want: formatter.Options{
				IndentSize:            2,
				UseSpaces:             true,
				InlineShortElements:   false,
				ShortElementThreshold: 60,
				PreserveUserMultiline: true,
			},
		},
		"detected indentation overrides": {
			input: "indent_size: 2\n",
			doc:   "<div>\n\t<p>x</p>\n</div>",
			want: formatter.Options{
				IndentSize:            4,
				UseSpaces:             false,
				InlineShortElements:   true,
				ShortElementThreshold: 80,
				PreserveUserMultiline: true,
			},
		},
		"detection disabled": {
			input: "indent_size: 2\ndetect_indentation: false\n",
			doc:   "<div>\n\t<p>x</p>\n</div>",
			want: formatter.Options{
				IndentSize:            2,
				UseSpaces:             true,
				InlineShortElements:   true,
				ShortElementThreshold: 80,
				PreserveUserMultiline: true,
			},
		},
		"unknown key": {
			input:   "indent: 2\n",
			wantErr: true,
		},
		"wrong type": {
			input:   "use_spaces: sometimes\n",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Decode() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			got, err := cfg.Options(tt.doc)
			if err != nil {
				t.Fatalf("Options() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Options() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptionsInvalid(t *testing.T) {
	cfg, err := Decode(strings.NewReader("short_element_threshold: 0\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, err := cfg.Options(""); !errors.Is(err, formatter.ErrInvalidOptions) {
		t.Errorf("Options() error = %v, want ErrInvalidOptions", err)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".ngfmt.yml"), "indent_size: 2\n")
	nested := filepath.Join(root, "src", "app", "components")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	got, ok := Find(nested)
	if !ok {
		t.Fatal("Find() found nothing")
	}
	if want := filepath.Join(root, ".ngfmt.yml"); got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}

	// A closer file wins.
	closer := filepath.Join(root, "src", ".ngfmt.yaml")
	writeFile(t, closer, "indent_size: 3\n")
	if got, _ := Find(nested); got != closer {
		t.Errorf("Find() = %q, want %q", got, closer)
	}
}

func TestForFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".ngfmt.yaml"), "indent_size: 2\ndetect_indentation: false\n")
	page := filepath.Join(root, "pages", "home.html")
	writeFile(t, page, "<p>x</p>\n")

	cfg, err := ForFile(page)
	if err != nil {
		t.Fatalf("ForFile() error = %v", err)
	}
	if cfg.Path != filepath.Join(root, ".ngfmt.yaml") {
		t.Errorf("ForFile() Path = %q", cfg.Path)
	}
	opts, err := cfg.Options("")
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.IndentSize != 2 {
		t.Errorf("IndentSize = %d, want 2", opts.IndentSize)
	}
}

func TestMatches(t *testing.T) {
	type tc struct {
		extensions []string
		path       string
		want       bool
	}

	tests := map[string]tc{
		"default html":        {path: "a/b.html", want: true},
		"default upper":       {path: "B.HTML", want: true},
		"default other":       {path: "b.ts", want: false},
		"custom without dot":  {extensions: []string{"ng.html", "htm"}, path: "x.htm", want: true},
		"custom excludes html": {extensions: []string{".tmpl"}, path: "x.html", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &Config{Extensions: tt.extensions}
			if got := cfg.Matches(tt.path); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
