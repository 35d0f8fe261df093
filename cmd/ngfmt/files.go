package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/grindlemire/go-ngfmt/internal/config"
	"github.com/grindlemire/go-ngfmt/internal/log"
)

// skipDirs are never descended into by a recursive walk.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	".angular":     true,
}

// collectFiles expands command line paths into template files. A path
// ending in /... is walked recursively, a directory is listed
// non-recursively and a file named explicitly is always included. match
// decides which files found in directories are templates.
func collectFiles(paths []string, match func(string) bool) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, path := range paths {
		if strings.HasSuffix(path, "/...") {
			root := strings.TrimSuffix(path, "/...")
			if root == "" {
				root = "."
			}

			err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if p != root && skipDirs[d.Name()] {
						return filepath.SkipDir
					}
					return nil
				}
				if match(p) {
					add(p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", root, err)
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			p := filepath.Join(path, entry.Name())
			if !entry.IsDir() && match(p) {
				add(p)
			}
		}
	}

	return files, nil
}

// configs memoizes the config that applies to each directory.
type configs struct {
	mu    sync.Mutex
	byDir map[string]*config.Config
}

func newConfigs() *configs {
	return &configs{byDir: make(map[string]*config.Config)}
}

// forFile returns the config governing path.
func (c *configs) forFile(path string) (*config.Config, error) {
	dir := filepath.Dir(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cfg, ok := c.byDir[dir]; ok {
		return cfg, nil
	}
	cfg, err := config.ForFile(path)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Config("using %s for %s", cfg.Path, dir)
	}
	c.byDir[dir] = cfg
	return cfg, nil
}

// match reports whether path has a template extension under its config.
// Files whose config cannot be read are matched so the error surfaces
// when they are formatted.
func (c *configs) match(path string) bool {
	cfg, err := c.forFile(path)
	if err != nil {
		return true
	}
	return cfg.Matches(path)
}
