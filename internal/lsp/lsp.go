// Package lsp implements a language server that formats HTML templates.
package lsp

import (
	"context"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"
)

// Serve runs the language server over rwc until the client disconnects or
// ctx is cancelled.
func Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s := newServer()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))

	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		conn.Close()
	}
	return nil
}

// Stdio returns a transport over the process's stdin and stdout.
func Stdio() io.ReadWriteCloser {
	return transport{os.Stdin, os.Stdout}
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
