// Package config loads .ngfmt.yaml files and turns them into formatter
// options.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/grindlemire/go-ngfmt/internal/indent"
	"github.com/grindlemire/go-ngfmt/pkg/formatter"
)

// FileNames are the config file names searched for, in order.
var FileNames = []string{".ngfmt.yaml", ".ngfmt.yml"}

// DefaultExtensions are the file extensions formatted when a directory is
// given on the command line.
var DefaultExtensions = []string{".html"}

// Config mirrors the YAML file. Pointer fields distinguish an absent key
// from its zero value.
type Config struct {
	IndentSize            *int     `yaml:"indent_size"`
	UseSpaces             *bool    `yaml:"use_spaces"`
	InlineShortElements   *bool    `yaml:"inline_short_elements"`
	ShortElementThreshold *int     `yaml:"short_element_threshold"`
	PreserveUserMultiline *bool    `yaml:"preserve_user_multiline"`
	DetectIndentation     *bool    `yaml:"detect_indentation"`
	Extensions            []string `yaml:"extensions"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns a config with every key unset.
func Default() *Config {
	return &Config{}
}

// Load reads and decodes the config file at path. Unknown keys are errors.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode reads a config from r. An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	cfg := Default()
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Find walks from dir up to the filesystem root and returns the first
// config file found.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ForFile returns the config that applies to the file at path, or the
// defaults when none exists.
func ForFile(path string) (*Config, error) {
	found, ok := Find(filepath.Dir(path))
	if !ok {
		return Default(), nil
	}
	return Load(found)
}

// Options resolves the formatter options for doc. Explicit keys win over
// the defaults; unless detect_indentation is false, indentation found in
// doc replaces the configured indent style.
func (c *Config) Options(doc string) (formatter.Options, error) {
	opts := formatter.DefaultOptions()
	setInt(&opts.IndentSize, c.IndentSize)
	setBool(&opts.UseSpaces, c.UseSpaces)
	setBool(&opts.InlineShortElements, c.InlineShortElements)
	setInt(&opts.ShortElementThreshold, c.ShortElementThreshold)
	setBool(&opts.PreserveUserMultiline, c.PreserveUserMultiline)

	if c.DetectIndentation == nil || *c.DetectIndentation {
		if style, ok := indent.Detect(doc); ok {
			opts = style.Apply(opts)
		}
	}

	if err := opts.Validate(); err != nil {
		if c.Path != "" {
			return opts, fmt.Errorf("%s: %w", c.Path, err)
		}
		return opts, err
	}
	return opts, nil
}

// WithIndent returns a copy of c with the indentation keys set, as an
// editor does when it sends its own tab settings.
func (c *Config) WithIndent(size int, useSpaces bool) *Config {
	out := *c
	out.IndentSize = &size
	out.UseSpaces = &useSpaces
	return &out
}

// Exts returns the configured extensions, lower-cased with a leading dot.
func (c *Config) Exts() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	exts := make([]string, len(c.Extensions))
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = strings.ToLower(ext)
	}
	return exts
}

// Matches reports whether path has one of the configured extensions.
func (c *Config) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range c.Exts() {
		if ext == want {
			return true
		}
	}
	return false
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
