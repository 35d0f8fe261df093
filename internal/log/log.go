// Package log provides category-prefixed debug logging for the CLI and the
// language server. Logging is off until SetOutput is given a writer.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnvVar names the environment variable that points the CLI at a log file.
const EnvVar = "NGFMT_LOG"

var (
	out io.Writer
	mu  sync.Mutex
)

// SetOutput sets the log destination. Pass nil to disable logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// OpenFile appends logs to the file at path and returns it so the caller
// can close it.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	SetOutput(f)
	return f, nil
}

// FromEnv enables logging to the file named by EnvVar, if set. The returned
// function closes the file.
func FromEnv() (func(), error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return func() {}, nil
	}
	f, err := OpenFile(path)
	if err != nil {
		return func() {}, err
	}
	return func() {
		SetOutput(nil)
		f.Close()
	}, nil
}

// Debug writes an unprefixed log message if logging is enabled.
func Debug(format string, args ...any) {
	write("", format, args...)
}

// Server writes a server-prefixed log message.
func Server(format string, args ...any) {
	write("[server] ", format, args...)
}

// Format writes a format-prefixed log message.
func Format(format string, args ...any) {
	write("[format] ", format, args...)
}

// Config writes a config-prefixed log message.
func Config(format string, args ...any) {
	write("[config] ", format, args...)
}

// Cache writes a cache-prefixed log message.
func Cache(format string, args ...any) {
	write("[cache] ", format, args...)
}

// Enabled returns true if logging is enabled.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

func write(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		fmt.Fprintf(out, prefix+format+"\n", args...)
	}
}
