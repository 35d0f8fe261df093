package lsp

import (
	"context"
	"encoding/json"
	"net/url"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/grindlemire/go-ngfmt/internal/config"
	"github.com/grindlemire/go-ngfmt/internal/log"
	"github.com/grindlemire/go-ngfmt/pkg/formatter"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
	errShutDown = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidRequest, Message: "server is shut down"}
)

type server struct {
	content  map[lsp.DocumentURI]string
	shutdown bool

	// loadConfig returns the config for a file path.
	loadConfig func(path string) (*config.Config, error)
}

func newServer() *server {
	return &server{
		content:    make(map[lsp.DocumentURI]string),
		loadConfig: config.ForFile,
	}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(s, map[string]method{
		"initialize":                   s.initialize,
		"shutdown":                     s.shutDown,
		"exit":                         s.exit,
		"textDocument/didOpen":         s.didOpen,
		"textDocument/didChange":       s.didChange,
		"textDocument/didClose":        s.didClose,
		"textDocument/formatting":      s.formatting,
		"textDocument/rangeFormatting": s.rangeFormatting,

		"initialized":                      noop,
		"textDocument/didSave":             noop,
		"workspace/didChangeWatchedFiles":  noop,
		"workspace/didChangeConfiguration": noop,
		"$/cancelRequest":                  noop,
	})
}

type method func(context.Context, *jsonrpc2.Conn, json.RawMessage) (any, error)

func noop(_ context.Context, _ *jsonrpc2.Conn, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(s *server, methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		log.Server("<- %s", req.Method)
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		if s.shutdown && req.Method != "exit" {
			return nil, errShutDown
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ *jsonrpc2.Conn, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			DocumentFormattingProvider:      true,
			DocumentRangeFormattingProvider: true,
		},
	}, nil
}

func (s *server) shutDown(_ context.Context, _ *jsonrpc2.Conn, _ json.RawMessage) (any, error) {
	s.shutdown = true
	return nil, nil
}

func (s *server) exit(_ context.Context, conn *jsonrpc2.Conn, _ json.RawMessage) (any, error) {
	log.Server("exiting")
	conn.Close()
	return nil, nil
}

func (s *server) didOpen(_ context.Context, _ *jsonrpc2.Conn, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.content[params.TextDocument.URI] = params.TextDocument.Text
	return nil, nil
}

func (s *server) didChange(_ context.Context, _ *jsonrpc2.Conn, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// Only full sync is advertised, so the last change holds the whole text.
	changes := params.ContentChanges
	s.content[params.TextDocument.URI] = changes[len(changes)-1].Text
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ *jsonrpc2.Conn, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) formatting(_ context.Context, _ *jsonrpc2.Conn, rawParams json.RawMessage) (any, error) {
	var params lsp.DocumentFormattingParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	content, ok := s.content[uri]
	if !ok {
		log.Server("formatting unknown document %s", uri)
		return []lsp.TextEdit{}, nil
	}
	opts, ok := s.options(uri, content, params.Options)
	if !ok {
		return []lsp.TextEdit{}, nil
	}
	return formatRange(content, fullRange(content), opts), nil
}

func (s *server) rangeFormatting(_ context.Context, _ *jsonrpc2.Conn, rawParams json.RawMessage) (any, error) {
	var params lsp.DocumentRangeFormattingParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	content, ok := s.content[uri]
	if !ok {
		log.Server("range formatting unknown document %s", uri)
		return []lsp.TextEdit{}, nil
	}
	opts, ok := s.options(uri, content, params.Options)
	if !ok {
		return []lsp.TextEdit{}, nil
	}

	from := lspPositionToIdx(content, params.Range.Start)
	to := lspPositionToIdx(content, params.Range.End)
	if to < from {
		from, to = to, from
	}
	return formatRange(content[from:to], params.Range, opts), nil
}

// formatRange formats text and returns one edit replacing rg, or no edits
// when the text is already formatted.
func formatRange(text string, rg lsp.Range, opts formatter.Options) []lsp.TextEdit {
	res, err := formatter.FormatWithResult(text, opts)
	if err != nil {
		log.Server("formatting error: %v", err)
		return []lsp.TextEdit{}
	}
	if !res.Changed {
		return []lsp.TextEdit{}
	}
	return []lsp.TextEdit{{Range: rg, NewText: res.Content}}
}

// options resolves formatter options for a document: the nearest config
// file, then the editor's tab settings, then indentation detected in doc.
func (s *server) options(uri lsp.DocumentURI, doc string, fo lsp.FormattingOptions) (formatter.Options, bool) {
	cfg := config.Default()
	if path, ok := filePath(uri); ok {
		loaded, err := s.loadConfig(path)
		if err != nil {
			log.Server("config for %s: %v", uri, err)
		} else {
			cfg = loaded
		}
	}
	if fo.TabSize > 0 {
		cfg = cfg.WithIndent(fo.TabSize, fo.InsertSpaces)
	}

	opts, err := cfg.Options(doc)
	if err != nil {
		log.Server("options for %s: %v", uri, err)
		return opts, false
	}
	return opts, true
}

// filePath returns the local path of a file:// URI.
func filePath(uri lsp.DocumentURI) (string, bool) {
	u, err := url.Parse(string(uri))
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return u.Path, true
}
