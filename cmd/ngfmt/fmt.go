package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/go-ngfmt/internal/cache"
	"github.com/grindlemire/go-ngfmt/internal/log"
	"github.com/grindlemire/go-ngfmt/pkg/formatter"
)

// errNotFormatted is returned by check runs that find unformatted input.
var errNotFormatted = errors.New("not formatted")

// fmtMode selects what runFmt does with formatted output.
type fmtMode int

const (
	modeInPlace fmtMode = iota // rewrite changed files
	modeCheck                  // report unformatted files
	modeStdout                 // print formatted output
)

// fmtCmd holds the parsed fmt flags and the process streams.
type fmtCmd struct {
	mode      fmtMode
	verbose   bool
	cachePath string

	stdin          *os.File
	stdout, stderr io.Writer
}

// fileResult is the outcome of formatting one file.
type fileResult struct {
	path    string
	changed bool
	cached  bool
	content string
	err     error
}

// runFmt implements the fmt and check subcommands.
func runFmt(name string, args []string, stdin *os.File, stdout, stderr io.Writer) error {
	cmd := &fmtCmd{stdin: stdin, stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	check := fs.Bool("check", name == "check", "Report unformatted files without modifying them")
	toStdout := fs.Bool("stdout", false, "Print formatted output instead of rewriting files")
	fs.StringVar(&cmd.cachePath, "cache", "", "Skip files recorded as formatted in this cache database")
	fs.BoolVar(&cmd.verbose, "v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *check && *toStdout:
		return fmt.Errorf("--check and --stdout are mutually exclusive")
	case *check:
		cmd.mode = modeCheck
	case *toStdout:
		cmd.mode = modeStdout
	}

	paths := fs.Args()
	if len(paths) == 0 && !isTerminal(stdin) {
		return cmd.formatStdin()
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfgs := newConfigs()
	files, err := collectFiles(paths, cfgs.match)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no template files found")
	}
	log.Debug("%s: %d file(s), mode %d", name, len(files), cmd.mode)

	var c *cache.Cache
	if cmd.cachePath != "" {
		c, err = cache.Open(cmd.cachePath)
		if err != nil {
			return err
		}
		defer c.Close()
	}

	results := cmd.formatFiles(files, cfgs, c)
	return cmd.report(results)
}

// formatStdin formats standard input using the config found from the
// working directory.
func (cmd *fmtCmd) formatStdin() error {
	source, err := io.ReadAll(cmd.stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	cfg, err := newConfigs().forFile("<stdin>")
	if err != nil {
		return err
	}
	opts, err := cfg.Options(string(source))
	if err != nil {
		return err
	}
	res, err := formatter.FormatWithResult(string(source), opts)
	if err != nil {
		return err
	}

	if cmd.mode == modeCheck {
		if res.Changed {
			fmt.Fprintln(cmd.stderr, "ERROR: <stdin> is not formatted")
			return errNotFormatted
		}
		return nil
	}
	_, err = io.WriteString(cmd.stdout, res.Content)
	return err
}

// formatFiles formats files concurrently, at most GOMAXPROCS at a time.
// Results keep the order of files.
func (cmd *fmtCmd) formatFiles(files []string, cfgs *configs, c *cache.Cache) []fileResult {
	results := make([]fileResult, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			results[i] = cmd.formatFile(path, cfgs, c)
			return nil
		})
	}
	g.Wait()

	return results
}

func (cmd *fmtCmd) formatFile(path string, cfgs *configs, c *cache.Cache) fileResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return fileResult{path: path, err: fmt.Errorf("reading file: %w", err)}
	}
	content := string(source)

	cfg, err := cfgs.forFile(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	opts, err := cfg.Options(content)
	if err != nil {
		return fileResult{path: path, err: err}
	}

	if c != nil && cmd.mode != modeStdout {
		hit, err := c.Formatted(path, content, opts)
		if err != nil {
			log.Cache("lookup %s: %v", path, err)
		} else if hit {
			log.Cache("hit %s", path)
			return fileResult{path: path, cached: true, content: content}
		}
	}

	res, err := formatter.FormatWithResult(content, opts)
	if err != nil {
		return fileResult{path: path, err: err}
	}

	if res.Changed && cmd.mode == modeInPlace {
		if err := os.WriteFile(path, []byte(res.Content), 0644); err != nil {
			return fileResult{path: path, err: fmt.Errorf("writing file: %w", err)}
		}
		log.Format("rewrote %s", path)
	}

	switch {
	case c == nil:
	case cmd.mode == modeInPlace || !res.Changed:
		if err := c.Record(path, res.Content, opts); err != nil {
			log.Cache("record %s: %v", path, err)
		}
	default:
		if err := c.Forget(path); err != nil {
			log.Cache("forget %s: %v", path, err)
		}
	}

	return fileResult{path: path, changed: res.Changed, content: res.Content}
}

// report prints per-file outcomes and summarizes failures.
func (cmd *fmtCmd) report(results []fileResult) error {
	var errorCount, notFormattedCount int
	for _, res := range results {
		switch {
		case res.err != nil:
			fmt.Fprintf(cmd.stderr, "%s: %v\n", res.path, res.err)
			errorCount++
		case cmd.mode == modeStdout:
			if len(results) > 1 {
				fmt.Fprintf(cmd.stdout, "<!-- %s -->\n", res.path)
			}
			fmt.Fprint(cmd.stdout, res.content)
		case res.cached:
			if cmd.verbose {
				fmt.Fprintf(cmd.stdout, "Cached: %s\n", res.path)
			}
		case res.changed && cmd.mode == modeCheck:
			fmt.Fprintf(cmd.stderr, "ERROR: %s is not formatted\n", res.path)
			notFormattedCount++
		case res.changed:
			fmt.Fprintf(cmd.stdout, "Formatted: %s\n", res.path)
		case cmd.verbose:
			fmt.Fprintf(cmd.stdout, "Unchanged: %s\n", res.path)
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}
	if notFormattedCount > 0 {
		return fmt.Errorf("%d file(s) %w", notFormattedCount, errNotFormatted)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return true
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
