package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

func newCompiler(t *testing.T, opts Options) *ESBuild {
	t.Helper()
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestCompileStripsTypesToCommonJS(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, Options{Format: playground.FormatCommonJS, RemoveComments: true})
	out, err := c.Compile("export const x: number = 1;")
	require.NoError(t, err)
	require.Contains(t, out, "module.exports")
	require.NotContains(t, out, ": number")
}

func TestCompileEmitsESModule(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, Options{Format: playground.FormatESM})
	out, err := c.Compile("export const x = 1;")
	require.NoError(t, err)
	require.Contains(t, out, "export")
	require.NotContains(t, out, "module.exports")
}

func TestCompileIIFEAssignsGlobal(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, Options{Format: playground.FormatIIFE})
	out, err := c.Compile("export const x = 1;")
	require.NoError(t, err)
	require.Contains(t, out, playground.IIFEGlobal)
}

func TestCompileRemoveCommentsDropsLegalComments(t *testing.T) {
	t.Parallel()

	src := "/*! keep me */\nexport const x = 1;"

	stripped, err := newCompiler(t, Options{RemoveComments: true}).Compile(src)
	require.NoError(t, err)
	require.NotContains(t, stripped, "keep me")

	kept, err := newCompiler(t, Options{RemoveComments: false}).Compile(src)
	require.NoError(t, err)
	require.Contains(t, kept, "keep me")
}

func TestCompileReturnsCompileErrorForInvalidSyntax(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, Options{})
	out, err := c.Compile("export const x = ;")
	require.Empty(t, out)
	require.Error(t, err)
	require.Equal(t, playground.ErrCodeCompile, playground.CodeOf(err))

	var domainErr *playground.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.NotEmpty(t, domainErr.Diagnostics)
	require.Equal(t, 0, domainErr.Diagnostics[0].Range.Start.Line)
}

func TestDiagnoseTagsSnapshotIdentity(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, Options{})
	set := c.Diagnose(playground.Snapshot{Document: "main.ts", Revision: 7, Text: "const a = {\n  b: 1,\n"})

	require.Equal(t, playground.DocumentID("main.ts"), set.Document)
	require.Equal(t, playground.Revision(7), set.Revision)
	require.True(t, set.HasErrors())
	require.Equal(t, "esbuild", set.Items[0].Source)
}

func TestDiagnoseCleanSource(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, Options{})
	set := c.Diagnose(playground.Snapshot{Document: "main.ts", Revision: 1, Text: "export const x = 1;"})
	require.False(t, set.HasErrors())
}

func TestNewRejectsUnknownOptions(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Format: "amd"})
	require.Error(t, err)

	_, err = New(Options{Target: "es3"})
	require.Error(t, err)
}
