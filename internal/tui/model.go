// Package tui is the terminal editing surface: a TypeScript editor on the
// left, the read-only artifact on the right and a status line below.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	bubblesviewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/varplay/internal/application/pipeline"
	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
	"github.com/alexisbeaulieu97/varplay/internal/viewport"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Driver is the part of the change pipeline the editor talks to.
type Driver interface {
	ContentChanged(snap playground.Snapshot)
	DiagnosticsChanged(set playground.DiagnosticSet)
	State() pipeline.State
}

// Options configures a Model.
type Options struct {
	Title          string
	Document       playground.DocumentID
	Source         string
	Transform      string
	Driver         Driver
	Analyzer       ports.Analyzer
	Surface        *ChannelSurface
	ResizeDebounce time.Duration
}

// Model is the Bubble Tea model of the playground.
type Model struct {
	title     string
	transform string
	doc       playground.DocumentID
	revision  playground.Revision

	driver   Driver
	analyzer ports.Analyzer
	surface  *ChannelSurface

	editor  textarea.Model
	output  bubblesviewport.Model
	spinner spinner.Model
	sync    viewport.Sync

	diagnostics playground.DiagnosticSet
	artifact    string
	indicator   bool
	outcome     *playground.Outcome
	quitting    bool
}

// NewModel builds the editor around opts.Source.
func NewModel(opts Options) Model {
	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Placeholder = "export const color = '#336699';"
	editor.SetValue(opts.Source)
	editor.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	title := opts.Title
	if title == "" {
		title = "varplay"
	}

	m := Model{
		title:       title,
		transform:   opts.Transform,
		doc:         opts.Document,
		driver:      opts.Driver,
		analyzer:    opts.Analyzer,
		surface:     opts.Surface,
		editor:      editor,
		output:      bubblesviewport.New(defaultWidth/2, defaultHeight),
		spinner:     s,
		sync:        viewport.NewSync(opts.ResizeDebounce, defaultWidth, defaultHeight),
		diagnostics: playground.DiagnosticSet{Document: opts.Document},
	}
	m.applyLayout()
	return m
}

// Init starts the cursor blink, the spinner, the surface listener and the
// analysis of the initial text.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.spinner.Tick}
	if m.surface != nil {
		cmds = append(cmds, m.surface.Listen())
	}
	if m.analyzer != nil {
		cmds = append(cmds, analyzeCmd(m.analyzer, m.snapshot()))
	}
	return tea.Batch(cmds...)
}

// Artifact returns the artifact currently displayed.
func (m Model) Artifact() string {
	return m.artifact
}

// Revision returns the number of edits made so far.
func (m Model) Revision() playground.Revision {
	return m.revision
}

// Source returns the editor text.
func (m Model) Source() string {
	return m.editor.Value()
}

func (m Model) snapshot() playground.Snapshot {
	return playground.Snapshot{Document: m.doc, Revision: m.revision, Text: m.editor.Value()}
}

func (m *Model) applyLayout() {
	layout := m.sync.Layout()
	m.editor.SetWidth(layout.Editor.Width)
	m.editor.SetHeight(layout.Editor.Height)
	m.output.Width = layout.Output.Width
	m.output.Height = layout.Output.Height
}
