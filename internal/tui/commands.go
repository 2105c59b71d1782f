package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

// analyzeCmd computes diagnostics for snap off the update loop.
func analyzeCmd(analyzer ports.Analyzer, snap playground.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DiagnosticsMsg{Set: analyzer.Diagnose(snap)}
	}
}
