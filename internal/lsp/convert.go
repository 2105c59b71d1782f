package lsp

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

func toRevision(version protocol.Integer) (playground.Revision, error) {
	v, err := safecast.Conv[uint64](version)
	if err != nil {
		return 0, fmt.Errorf("invalid document version %d: %w", version, err)
	}
	return playground.Revision(v), nil
}

func publishParams(uri protocol.DocumentUri, snap playground.Snapshot, set playground.DiagnosticSet) (protocol.PublishDiagnosticsParams, error) {
	version, err := safecast.Conv[protocol.UInteger](uint64(snap.Revision))
	if err != nil {
		return protocol.PublishDiagnosticsParams{}, err
	}

	lines := strings.Split(snap.Text, "\n")
	diagnostics := make([]protocol.Diagnostic, 0, len(set.Items))
	for _, item := range set.Items {
		d, err := toDiagnostic(lines, item)
		if err != nil {
			return protocol.PublishDiagnosticsParams{}, err
		}
		diagnostics = append(diagnostics, d)
	}

	return protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	}, nil
}

func toDiagnostic(lines []string, item playground.Diagnostic) (protocol.Diagnostic, error) {
	start, err := toPosition(lines, item.Range.Start)
	if err != nil {
		return protocol.Diagnostic{}, err
	}
	end, err := toPosition(lines, item.Range.End)
	if err != nil {
		return protocol.Diagnostic{}, err
	}

	severity := toSeverity(item.Severity)
	d := protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Message:  item.Message,
	}
	if item.Source != "" {
		source := item.Source
		d.Source = &source
	}
	return d, nil
}

// toPosition converts a byte column into the UTF-16 column LSP clients expect.
func toPosition(lines []string, pos playground.Position) (protocol.Position, error) {
	character := pos.Column
	if pos.Line >= 0 && pos.Line < len(lines) {
		character = utf16Column(lines[pos.Line], pos.Column)
	}

	line, err := safecast.Conv[protocol.UInteger](pos.Line)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("line %d: %w", pos.Line, err)
	}
	col, err := safecast.Conv[protocol.UInteger](character)
	if err != nil {
		return protocol.Position{}, fmt.Errorf("column %d: %w", pos.Column, err)
	}
	return protocol.Position{Line: line, Character: col}, nil
}

func utf16Column(line string, byteCol int) int {
	if byteCol > len(line) {
		byteCol = len(line)
	}
	units := 0
	for i := 0; i < byteCol; {
		r, size := utf8.DecodeRuneInString(line[i:])
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
		i += size
	}
	return units
}

func toSeverity(s playground.Severity) protocol.DiagnosticSeverity {
	switch s {
	case playground.SeverityError:
		return protocol.DiagnosticSeverityError
	case playground.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case playground.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityInformation
	}
}
