package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/varplay/internal/viewport"
)

// Update handles Bubble Tea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmd, applied := m.sync.Resize(msg)
		if applied {
			m.applyLayout()
		}
		return m, cmd

	case viewport.SettledMsg:
		if m.sync.Settle(msg) {
			m.applyLayout()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case DiagnosticsMsg:
		if msg.Set.Document == m.doc && msg.Set.Revision >= m.diagnostics.Revision {
			m.diagnostics = msg.Set
		}
		if m.driver != nil {
			m.driver.DiagnosticsChanged(msg.Set)
		}
		return m, nil

	case OutputMsg:
		m.artifact = msg.Artifact
		m.output.SetContent(msg.Artifact)
		return m, m.listen()

	case IndicatorMsg:
		m.indicator = msg.Active
		return m, m.listen()

	case OutcomeMsg:
		outcome := msg.Outcome
		m.outcome = &outcome
		return m, m.listen()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		m.quitting = true
		return m, tea.Quit
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() == before {
		return m, cmd
	}

	m.revision++
	snap := m.snapshot()
	if m.driver != nil {
		m.driver.ContentChanged(snap)
	}
	if m.analyzer != nil {
		cmd = tea.Batch(cmd, analyzeCmd(m.analyzer, snap))
	}
	return m, cmd
}

func (m Model) listen() tea.Cmd {
	if m.surface == nil {
		return nil
	}
	return m.surface.Listen()
}
