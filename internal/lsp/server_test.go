package lsp

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

const primaryDoc playground.DocumentID = "primary"

type recordingDriver struct {
	mu          sync.Mutex
	contents    []playground.Snapshot
	diagnostics []playground.DiagnosticSet
	resets      int
}

func (d *recordingDriver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resets++
}

func (d *recordingDriver) resetCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resets
}

func (d *recordingDriver) ContentChanged(snap playground.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.contents = append(d.contents, snap)
}

func (d *recordingDriver) DiagnosticsChanged(set playground.DiagnosticSet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.diagnostics = append(d.diagnostics, set)
}

func (d *recordingDriver) snapshot() ([]playground.Snapshot, []playground.DiagnosticSet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]playground.Snapshot(nil), d.contents...), append([]playground.DiagnosticSet(nil), d.diagnostics...)
}

// semicolonAnalyzer reports an error when the text lacks a trailing semicolon.
type semicolonAnalyzer struct{}

func (semicolonAnalyzer) Diagnose(snap playground.Snapshot) playground.DiagnosticSet {
	set := playground.DiagnosticSet{Document: snap.Document, Revision: snap.Revision}
	if !strings.HasSuffix(strings.TrimSpace(snap.Text), ";") {
		set.Items = append(set.Items, playground.Diagnostic{
			Severity: playground.SeverityError,
			Message:  "Expected \";\"",
			Range: playground.Range{
				Start: playground.Position{Line: 0, Column: len(snap.Text)},
				End:   playground.Position{Line: 0, Column: len(snap.Text)},
			},
			Source: "esbuild",
		})
	}
	return set
}

// heldAnalyzer blocks analysis of text until release(text) is called.
type heldAnalyzer struct {
	mu    sync.Mutex
	holds map[string]chan struct{}
}

func (a *heldAnalyzer) hold(text string) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.holds == nil {
		a.holds = make(map[string]chan struct{})
	}
	ch := make(chan struct{})
	a.holds[text] = ch
	return func() { close(ch) }
}

func (a *heldAnalyzer) Diagnose(snap playground.Snapshot) playground.DiagnosticSet {
	a.mu.Lock()
	ch := a.holds[snap.Text]
	a.mu.Unlock()
	if ch != nil {
		<-ch
	}
	return semicolonAnalyzer{}.Diagnose(snap)
}

type notifications struct {
	mu   sync.Mutex
	sent []notification
}

type notification struct {
	method string
	params any
}

func (n *notifications) notify(method string, params any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{method: method, params: params})
}

func (n *notifications) published() []protocol.PublishDiagnosticsParams {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []protocol.PublishDiagnosticsParams
	for _, sent := range n.sent {
		if params, ok := sent.params.(protocol.PublishDiagnosticsParams); ok {
			out = append(out, params)
		}
	}
	return out
}

func newTestServer(t *testing.T) (*Server, *recordingDriver, *notifications, *glsp.Context) {
	t.Helper()
	driver := &recordingDriver{}
	s, err := New(Options{Document: primaryDoc, Analyzer: semicolonAnalyzer{}, Driver: driver})
	require.NoError(t, err)

	n := &notifications{}
	ctx := &glsp.Context{Notify: n.notify}
	return s, driver, n, ctx
}

func open(t *testing.T, s *Server, ctx *glsp.Context, uri protocol.DocumentUri, version protocol.Integer, text string) {
	t.Helper()
	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "typescript", Version: version, Text: text},
	}))
}

func change(t *testing.T, s *Server, ctx *glsp.Context, uri protocol.DocumentUri, version protocol.Integer, text string) {
	t.Helper()
	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                version,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: text}},
	}))
}

func TestNewRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Driver: &recordingDriver{}})
	assert.Error(t, err)

	_, err = New(Options{Analyzer: semicolonAnalyzer{}})
	assert.Error(t, err)
}

func TestFirstOpenedDocumentIsPrimary(t *testing.T) {
	t.Parallel()

	s, driver, _, ctx := newTestServer(t)
	open(t, s, ctx, "file:///rules.ts", 1, "export const a = 1;")
	open(t, s, ctx, "file:///other.ts", 1, "export const b = 2;")
	s.Wait()

	primary, ok := s.Primary()
	require.True(t, ok)
	assert.Equal(t, protocol.DocumentUri("file:///rules.ts"), primary)

	contents, diagnostics := driver.snapshot()
	require.Len(t, contents, 1)
	assert.Equal(t, primaryDoc, contents[0].Document)
	assert.Equal(t, playground.Revision(1), contents[0].Revision)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, primaryDoc, diagnostics[0].Document)
}

func TestChangePublishesVersionedDiagnostics(t *testing.T) {
	t.Parallel()

	s, driver, n, ctx := newTestServer(t)
	open(t, s, ctx, "file:///rules.ts", 1, "export const a = 1;")
	s.Wait()
	change(t, s, ctx, "file:///rules.ts", 2, "export const a = ")
	s.Wait()

	published := n.published()
	require.Len(t, published, 2)

	last := published[1]
	require.NotNil(t, last.Version)
	assert.Equal(t, protocol.UInteger(2), *last.Version)
	require.Len(t, last.Diagnostics, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, *last.Diagnostics[0].Severity)
	assert.Equal(t, "esbuild", *last.Diagnostics[0].Source)

	contents, diagnostics := driver.snapshot()
	require.Len(t, contents, 2)
	assert.Equal(t, "export const a = ", contents[1].Text)
	require.Len(t, diagnostics, 2)
	assert.True(t, diagnostics[1].HasErrors())
}

func TestSecondaryDocumentsOnlyGetDiagnostics(t *testing.T) {
	t.Parallel()

	s, driver, n, ctx := newTestServer(t)
	open(t, s, ctx, "file:///rules.ts", 1, "export const a = 1;")
	open(t, s, ctx, "file:///scratch.ts", 1, "let x")
	change(t, s, ctx, "file:///scratch.ts", 2, "let x =")
	s.Wait()

	contents, diagnostics := driver.snapshot()
	assert.Len(t, contents, 1)
	assert.Len(t, diagnostics, 1)

	var scratch int
	for _, p := range n.published() {
		if p.URI == "file:///scratch.ts" {
			scratch++
		}
	}
	assert.Positive(t, scratch)
}

func TestIncrementalChangesAreRejected(t *testing.T) {
	t.Parallel()

	s, _, _, ctx := newTestServer(t)
	err := s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///rules.ts"},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{Text: "x"}},
	})
	assert.Error(t, err)
}

func TestIndicateSendsLogMessage(t *testing.T) {
	t.Parallel()

	s, _, n, ctx := newTestServer(t)
	s.Indicate(true, "/tmp/out.css")
	assert.Empty(t, n.sent)

	open(t, s, ctx, "file:///rules.ts", 1, "export const a = 1;")
	s.Wait()
	s.Indicate(true, "/tmp/out.css")
	s.Indicate(false, "/tmp/out.css")

	n.mu.Lock()
	defer n.mu.Unlock()
	var logs []protocol.LogMessageParams
	for _, sent := range n.sent {
		if sent.method == protocol.ServerWindowLogMessage {
			logs = append(logs, sent.params.(protocol.LogMessageParams))
		}
	}
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "/tmp/out.css")
}

func TestInitializeAdvertisesFullSync(t *testing.T) {
	t.Parallel()

	s, _, _, ctx := newTestServer(t)
	result, err := s.initialize(ctx, &protocol.InitializeParams{})
	require.NoError(t, err)

	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	opts, ok := res.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, *opts.Change)
	assert.Equal(t, serverName, res.ServerInfo.Name)
}

func TestReportFailureShowsMessage(t *testing.T) {
	t.Parallel()

	s, _, n, ctx := newTestServer(t)
	s.remember(ctx)
	s.ReportFailure("load failed: ReferenceError: x is not defined")

	n.mu.Lock()
	defer n.mu.Unlock()
	require.Len(t, n.sent, 1)
	assert.Equal(t, protocol.ServerWindowShowMessage, n.sent[0].method)
	params := n.sent[0].params.(protocol.ShowMessageParams)
	assert.Equal(t, protocol.MessageTypeWarning, params.Type)
	assert.Contains(t, params.Message, "ReferenceError")
}

func closeDoc(t *testing.T, s *Server, ctx *glsp.Context, uri protocol.DocumentUri) {
	t.Helper()
	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
}

func TestReopenedPrimaryRestartsRevisions(t *testing.T) {
	t.Parallel()

	s, driver, _, ctx := newTestServer(t)
	open(t, s, ctx, "file:///rules.ts", 1, "export const a = 1;")
	change(t, s, ctx, "file:///rules.ts", 5, "export const a = 5;")
	s.Wait()

	closeDoc(t, s, ctx, "file:///scratch.ts")
	assert.Zero(t, driver.resetCount())

	closeDoc(t, s, ctx, "file:///rules.ts")
	assert.Equal(t, 1, driver.resetCount())

	open(t, s, ctx, "file:///rules.ts", 1, "export const b = 1;")
	s.Wait()

	contents, diagnostics := driver.snapshot()
	require.Len(t, contents, 3)
	assert.Equal(t, primaryDoc, contents[2].Document)
	assert.Equal(t, playground.Revision(1), contents[2].Revision)
	require.Len(t, diagnostics, 3)
	assert.Equal(t, playground.Revision(1), diagnostics[2].Revision)
}

func TestDiagnosticsFromBeforeCloseAreNotForwarded(t *testing.T) {
	t.Parallel()

	driver := &recordingDriver{}
	analyzer := &heldAnalyzer{}
	s, err := New(Options{Document: primaryDoc, Analyzer: analyzer, Driver: driver})
	require.NoError(t, err)
	n := &notifications{}
	ctx := &glsp.Context{Notify: n.notify}

	release := analyzer.hold("export const a = 5;")
	open(t, s, ctx, "file:///rules.ts", 5, "export const a = 5;")
	closeDoc(t, s, ctx, "file:///rules.ts")
	release()
	s.Wait()

	_, diagnostics := driver.snapshot()
	assert.Empty(t, diagnostics)
}

func TestCloseClearsDiagnosticsBeforeWaitReturns(t *testing.T) {
	t.Parallel()

	s, _, n, ctx := newTestServer(t)
	closeDoc(t, s, ctx, "file:///rules.ts")
	s.Wait()

	published := n.published()
	require.Len(t, published, 1)
	assert.Equal(t, protocol.DocumentUri("file:///rules.ts"), published[0].URI)
	assert.Empty(t, published[0].Diagnostics)
}
