package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnifiedDiff_IdenticalContent(t *testing.T) {
	t.Parallel()

	content := []byte(":root {\n  --x: 1;\n}\n")
	require.Empty(t, GenerateUnifiedDiff(content, content, "expected", "actual"))
}

func TestGenerateUnifiedDiff_SingleLineChange(t *testing.T) {
	t.Parallel()

	expected := []byte(":root {\n  --x: 1;\n}\n")
	actual := []byte(":root {\n  --x: 2;\n}\n")

	result := GenerateUnifiedDiff(expected, actual, "theme.css", "generated")
	require.NotEmpty(t, result)
	assert.True(t, strings.HasPrefix(result, "--- theme.css\n+++ generated\n"))
	assert.Contains(t, result, "-  --x: 1;\n")
	assert.Contains(t, result, "+  --x: 2;\n")
	assert.Contains(t, result, " :root {\n")
	assert.Contains(t, result, " }\n")
}

func TestGenerateUnifiedDiff_Truncates(t *testing.T) {
	t.Parallel()

	var before, after strings.Builder
	for i := 0; i < maxDiffLines+10; i++ {
		before.WriteString("a\n")
		after.WriteString("b\n")
	}

	result := GenerateUnifiedDiff([]byte(before.String()), []byte(after.String()), "a", "b")
	assert.True(t, strings.HasSuffix(result, truncateMessage+"\n"))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before string
		after  string
		want   Summary
	}{
		{name: "identical", before: "a\nb\n", after: "a\nb\n", want: Summary{}},
		{name: "changed line", before: "a\nb\nc\n", after: "a\nB\nc\n", want: Summary{Added: 1, Removed: 1}},
		{name: "appended", before: "a\n", after: "a\nb\nc\n", want: Summary{Added: 2}},
		{name: "from empty", before: "", after: "a\nb\n", want: Summary{Added: 2}},
		{name: "removed", before: "a\nb\n", after: "a\n", want: Summary{Removed: 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Summarize(tt.before, tt.after)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Empty(), got.Empty())
		})
	}
}

func TestSummaryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+3 -1", Summary{Added: 3, Removed: 1}.String())
}
