// Package main provides the ngfmt command, a formatter for HTML templates
// with @-control blocks and {{ }} interpolations.
//
// Usage:
//
//	ngfmt fmt [path...]       Format template files in place
//	ngfmt check [path...]     Report unformatted files
//	ngfmt lsp                 Start the language server
//	ngfmt help                Show help
//
// Examples:
//
//	ngfmt fmt ./...           Recursively format all templates
//	ngfmt fmt ./src/app       Format templates in a directory
//	ngfmt check page.html     Check a single file
//	cat page.html | ngfmt fmt Format stdin to stdout
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/grindlemire/go-ngfmt/internal/log"
)

const version = "0.1.0"

const usage = `ngfmt - formatter for HTML templates with control blocks and interpolations

Usage:
  ngfmt <command> [options] [path...]

Commands:
  fmt         Format template files (stdin to stdout when no paths are given)
  check       Report files that are not formatted
  lsp         Start the language server (for editor integration)
  version     Print version information
  help        Show this help message

Options:
  -check        Check formatting without modifying files
  -stdout       Print formatted output to stdout
  -cache FILE   Skip files already recorded as formatted in FILE
  -v            Verbose output

Configuration:
  Settings are read from the nearest .ngfmt.yaml or .ngfmt.yml above each
  file. Set NGFMT_LOG to a file path to write debug logs.

Examples:
  ngfmt fmt ./...                   Recursively format all .html files
  ngfmt fmt -check ./...            Check formatting without modifying
  ngfmt fmt -stdout page.html       Print formatted output to stdout
  ngfmt fmt -cache .ngfmt.db ./...  Skip unchanged files between runs
  ngfmt lsp                         Start LSP server on stdio
  ngfmt lsp -log /tmp/ngfmt.log     Start with debug logging
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("no command given")
	}

	closeLog, err := log.FromEnv()
	if err != nil {
		return err
	}
	defer closeLog()

	command, args := args[0], args[1:]
	switch command {
	case "fmt", "check":
		return runFmt(command, args, stdin, stdout, stderr)
	case "lsp":
		return runLSP(args)
	case "version":
		fmt.Fprintf(stdout, "ngfmt version %s\n", version)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}
