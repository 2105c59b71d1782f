// Package lsp exposes the playground as a language server: the editor client
// supplies the text, varplay publishes diagnostics back and feeds the change
// pipeline of the primary document.
package lsp

import (
	"context"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/ports"

	_ "github.com/tliron/commonlog/simple"
)

const serverName = "varplay"

// Driver receives the primary document's events. Reset is sent when the
// primary document is closed, since clients restart versions on reopen.
type Driver interface {
	ContentChanged(snap playground.Snapshot)
	DiagnosticsChanged(set playground.DiagnosticSet)
	Reset()
}

// Options configures a Server.
type Options struct {
	// Document is the identity the pipeline uses for the primary document.
	Document playground.DocumentID
	Version  string
	Analyzer ports.Analyzer
	Driver   Driver
	Logger   ports.Logger
}

// Server is a glsp language server with full text synchronisation.
type Server struct {
	doc      playground.DocumentID
	version  string
	analyzer ports.Analyzer
	driver   Driver
	logger   ports.Logger

	mu      sync.Mutex
	primary protocol.DocumentUri
	epoch   uint64
	docs    map[protocol.DocumentUri]playground.Snapshot
	notify  glsp.NotifyFunc
	pending sync.WaitGroup

	handler protocol.Handler
	server  *glspserver.Server
}

// New builds a server. It does not start serving.
func New(opts Options) (*Server, error) {
	if opts.Analyzer == nil {
		return nil, fmt.Errorf("lsp server requires an analyzer")
	}
	if opts.Driver == nil {
		return nil, fmt.Errorf("lsp server requires a pipeline")
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		doc:      opts.Document,
		version:  opts.Version,
		analyzer: opts.Analyzer,
		driver:   opts.Driver,
		logger:   opts.Logger,
		docs:     make(map[protocol.DocumentUri]playground.Snapshot),
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}
	s.server = glspserver.NewServer(&s.handler, serverName, false)
	return s, nil
}

// RunStdio serves the protocol on stdin/stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

// Primary returns the URI of the document feeding the pipeline.
func (s *Server) Primary() (protocol.DocumentUri, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.primary, s.primary != ""
}

// Indicate tells the client an artifact was published. It is the language
// server rendition of the output indicator.
func (s *Server) Indicate(active bool, path string) {
	if !active {
		return
	}
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerWindowLogMessage, protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: fmt.Sprintf("varplay: updated %s", path),
	})
}

// ReportFailure shows a build failure the diagnostics cannot express, such
// as an exception thrown while the module was evaluated.
func (s *Server) ReportFailure(message string) {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    protocol.MessageTypeWarning,
		Message: "varplay: " + message,
	})
}

// Wait blocks until every in-flight analysis has been published.
func (s *Server) Wait() {
	s.pending.Wait()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	commonlog.NewInfoMessage(0, "varplay language server initializing")
	s.remember(ctx)

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	openClose := true
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &syncKind,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.Wait()
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	s.remember(ctx)

	s.mu.Lock()
	if s.primary == "" {
		s.primary = item.URI
		s.debug("primary document opened", "uri", item.URI)
	}
	s.mu.Unlock()

	return s.update(ctx, item.URI, item.Version, item.Text)
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last event carries the whole text.
	last := params.ContentChanges[len(params.ContentChanges)-1]
	whole, ok := last.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return fmt.Errorf("incremental change received for %s; full sync is required", params.TextDocument.URI)
	}
	return s.update(ctx, params.TextDocument.URI, params.TextDocument.Version, whole.Text)
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, uri)
	if uri == s.primary {
		s.epoch++
		s.driver.Reset()
		s.debug("primary document closed", "uri", uri)
	}
	s.mu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
	}()
	return nil
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, version protocol.Integer, text string) error {
	revision, err := toRevision(version)
	if err != nil {
		return fmt.Errorf("document %s: %w", uri, err)
	}

	s.mu.Lock()
	snap := playground.Snapshot{Document: s.identity(uri), Revision: revision, Text: text}
	s.docs[uri] = snap
	primary := uri == s.primary
	epoch := s.epoch
	if primary {
		s.driver.ContentChanged(snap)
	}
	s.mu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.analyze(ctx, uri, snap, primary, epoch)
	}()
	return nil
}

func (s *Server) analyze(ctx *glsp.Context, uri protocol.DocumentUri, snap playground.Snapshot, primary bool, epoch uint64) {
	set := s.analyzer.Diagnose(snap)

	s.mu.Lock()
	// Diagnostics of text from before a close would be recorded against the
	// reopened document's restarted revisions.
	if primary && epoch == s.epoch {
		s.driver.DiagnosticsChanged(set)
	}
	current, open := s.docs[uri]
	s.mu.Unlock()
	if !open || current.Revision != snap.Revision || current.Text != snap.Text {
		s.debug("dropping diagnostics of outdated text", "uri", uri, "revision", snap.Revision)
		return
	}

	params, err := publishParams(uri, snap, set)
	if err != nil {
		s.debug("cannot publish diagnostics", "uri", uri, "error", err)
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// identity maps a URI to the pipeline's document identity. Callers hold s.mu.
func (s *Server) identity(uri protocol.DocumentUri) playground.DocumentID {
	if uri == s.primary {
		return s.doc
	}
	return playground.DocumentID(uri)
}

func (s *Server) remember(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notify == nil {
		s.notify = ctx.Notify
	}
}

func (s *Server) debug(msg string, fields ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(context.Background(), msg, fields...)
	}
}
