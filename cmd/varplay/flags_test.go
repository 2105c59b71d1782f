package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	pkgerrors "github.com/alexisbeaulieu97/varplay/pkg/errors"
)

func snapshotOf(text string) playground.Snapshot {
	return playground.Snapshot{Document: "rules.ts", Text: text}
}

func TestValidateBuildOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    buildOptions
		wantErr string
	}{
		{name: "defaults", opts: buildOptions{emit: emitArtifact}},
		{name: "emit js with format", opts: buildOptions{emit: emitJS, format: "esm"}},
		{name: "unknown emit", opts: buildOptions{emit: "wasm"}, wantErr: "--emit"},
		{name: "format without js", opts: buildOptions{emit: emitArtifact, format: "iife"}, wantErr: "--format"},
		{name: "check without out", opts: buildOptions{emit: emitArtifact, check: true}, wantErr: "--check requires --out"},
		{name: "check with js", opts: buildOptions{emit: emitJS, check: true, out: "x.css"}, wantErr: "--check cannot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateBuildOptions(tt.opts)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateSourcePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "rules.ts")
	require.NoError(t, os.WriteFile(file, []byte("export {}"), 0o644))

	assert.NoError(t, validateSourcePath(""))
	assert.NoError(t, validateSourcePath("-"))
	assert.NoError(t, validateSourcePath(file))
	assert.ErrorContains(t, validateSourcePath(dir), "is a directory")
	assert.ErrorContains(t, validateSourcePath(filepath.Join(dir, "missing.ts")), "does not exist")
}

func TestReadSource(t *testing.T) {
	t.Parallel()

	text, name, err := readSource("-", strings.NewReader("export const a = 1;"))
	require.NoError(t, err)
	assert.Equal(t, "export const a = 1;", text)
	assert.Equal(t, stdinName, name)

	_, _, err = readSource(filepath.Join(t.TempDir(), "missing.ts"), nil)
	var ioErr *pkgerrors.IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 2, exitCode(&gatedError{errors: 1}))
	assert.Equal(t, 3, exitCode(&driftError{path: "out.css"}))
}

func TestDocumentIDUsesBaseName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, playground.DocumentID("rules.ts"), documentID("/tmp/project/rules.ts"))
}

func TestRootCommandRequiresTerminal(t *testing.T) {
	original := isTerminal
	t.Cleanup(func() { isTerminal = original })
	isTerminal = func() bool { return false }

	root := newRootCmd(newTestApp())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "varplay build")
}

func TestExampleSourceBuilds(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, exampleSource, "build")
	require.NoError(t, err)
	assert.Contains(t, stdout, "--radius: 4;")
	assert.Contains(t, stdout, "--brand-primary: #336699;")
	assert.Contains(t, stdout, ".text-accent {\n  color: var(--brand-accent);\n}")
	assert.Contains(t, stdout, "--space-md: 8px;")
	assert.Contains(t, stdout, ".gap-lg {\n  margin: var(--space-lg);\n  padding: var(--space-lg);\n}")
}
