// Package diff renders line-oriented differences between two artifacts.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// Summary counts changed lines between two texts.
type Summary struct {
	Added   int
	Removed int
}

// Empty reports whether the texts had no line changes.
func (s Summary) Empty() bool {
	return s.Added == 0 && s.Removed == 0
}

// String renders the summary as "+N -M".
func (s Summary) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// Lines diffs before and after line by line.
func Lines(before, after string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// Summarize counts the lines added and removed going from before to after.
func Summarize(before, after string) Summary {
	var s Summary
	if before == after {
		return s
	}
	for _, d := range Lines(before, after) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			s.Added += len(splitLines(d.Text))
		case diffmatchpatch.DiffDelete:
			s.Removed += len(splitLines(d.Text))
		}
	}
	return s
}

// GenerateUnifiedDiff renders a unified diff from expected to actual. It
// returns an empty string if the content is identical and truncates output
// beyond 10,000 lines.
func GenerateUnifiedDiff(expected, actual []byte, expectedLabel, actualLabel string) string {
	if string(expected) == string(actual) {
		return ""
	}

	expectedStr := string(expected)
	actualStr := string(actual)

	var buf strings.Builder
	fmt.Fprintf(&buf, "--- %s\n", expectedLabel)
	fmt.Fprintf(&buf, "+++ %s\n", actualLabel)
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", len(splitLines(expectedStr)), len(splitLines(actualStr)))

	for _, d := range Lines(expectedStr, actualStr) {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		return strings.Join(lines[:maxDiffLines], "\n") + "\n" + truncateMessage + "\n"
	}
	return result
}

// splitLines splits text into lines, dropping the empty element a trailing
// newline would produce.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
