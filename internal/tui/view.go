package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/alexisbeaulieu97/varplay/internal/application/pipeline"
	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

const indicatorGlyph = "● updated"

// View renders the header, both panes and the status lines.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	layout := m.sync.Layout()
	outputStyle := paneStyle
	if m.indicator {
		outputStyle = flashPaneStyle
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		activePaneStyle.Render(m.editor.View()),
		outputStyle.Render(m.outputView()),
	)

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(m.statusView(layout.Width))
	b.WriteString("\n")
	b.WriteString(m.diagnosticView(layout.Width))
	return b.String()
}

func (m Model) headerView() string {
	header := titleStyle.Render(m.title)
	if m.transform != "" {
		header += " " + mutedStyle.Render("→ "+m.transform)
	}
	if m.indicator {
		header += "  " + indicatorStyle.Render(indicatorGlyph)
	}
	return header
}

func (m Model) outputView() string {
	if m.artifact == "" {
		return mutedStyle.Render("waiting for the first build...")
	}
	return m.output.View()
}

func (m Model) statusView(width int) string {
	parts := []string{m.stateView()}

	if m.outcome != nil {
		parts = append(parts, outcomeView(*m.outcome))
	}

	if n := m.diagnostics.ErrorCount(); n > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d error(s)", n)))
	} else if len(m.diagnostics.Items) > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d warning(s)", len(m.diagnostics.Items))))
	}

	parts = append(parts, mutedStyle.Render("ctrl+c quit · pgup/pgdown scroll"))
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, "  "))
}

func (m Model) stateView() string {
	if m.driver == nil {
		return mutedStyle.Render(pipeline.StateIdle.String())
	}
	state := m.driver.State()
	switch state {
	case pipeline.StateBuilding, pipeline.StateDebouncing:
		return m.spinner.View() + " " + state.String()
	default:
		return mutedStyle.Render(state.String())
	}
}

func outcomeView(o playground.Outcome) string {
	switch o.Status {
	case playground.OutcomePublished:
		return successStyle.Render(fmt.Sprintf("published %s in %s", o.Changes, o.Duration.Round(time.Millisecond)))
	case playground.OutcomeUnchanged:
		return mutedStyle.Render("unchanged")
	case playground.OutcomeGated:
		return warningStyle.Render("waiting: " + o.Reason)
	case playground.OutcomeFailed:
		msg := "failed"
		if o.Err != nil {
			msg = o.Err.Error()
		}
		return errorStyle.Render(firstLine(msg))
	case playground.OutcomeStale:
		return mutedStyle.Render("discarded stale build")
	}
	return ""
}

func (m Model) diagnosticView(width int) string {
	if len(m.diagnostics.Items) == 0 {
		return ""
	}
	first := m.diagnostics.Items[0]
	style := warningStyle
	if first.Severity.Blocking() {
		style = errorStyle
	}
	return style.Render(truncate(firstLine(first.String()), width))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
