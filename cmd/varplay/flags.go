package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	pkgerrors "github.com/alexisbeaulieu97/varplay/pkg/errors"
)

const (
	emitArtifact = "artifact"
	emitJS       = "js"

	stdinName = "stdin.ts"
)

// gatedError reports a build skipped because of error diagnostics.
type gatedError struct {
	errors int
}

func (e *gatedError) Error() string {
	return fmt.Sprintf("build blocked by %d error diagnostic(s)", e.errors)
}

// driftError reports that --check found a different artifact on disk.
type driftError struct {
	path string
}

func (e *driftError) Error() string {
	return fmt.Sprintf("%s is out of date", e.path)
}

func exitCode(err error) int {
	var gated *gatedError
	if errors.As(err, &gated) {
		return 2
	}
	var drift *driftError
	if errors.As(err, &drift) {
		return 3
	}
	return 1
}

func validateBuildOptions(opts buildOptions) error {
	switch opts.emit {
	case emitArtifact, emitJS:
	default:
		return fmt.Errorf("--emit must be %q or %q, got %q", emitArtifact, emitJS, opts.emit)
	}
	if opts.format != "" && opts.emit != emitJS {
		return fmt.Errorf("--format only applies to --emit %s", emitJS)
	}
	if opts.check && strings.TrimSpace(opts.out) == "" {
		return fmt.Errorf("--check requires --out")
	}
	if opts.check && opts.emit == emitJS {
		return fmt.Errorf("--check cannot be combined with --emit %s", emitJS)
	}
	return nil
}

func validateSourcePath(path string) error {
	if path == "" || path == "-" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("source file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source path %s is a directory", abs)
	}
	return nil
}

// readSource reads path, or stdin when path is empty or "-". It returns the
// text and the display name.
func readSource(path string, stdin io.Reader) (string, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", stdinName, pkgerrors.NewIOError("read", path, err)
		}
		return string(data), stdinName, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", path, pkgerrors.NewIOError("read", path, err)
	}
	return string(data), path, nil
}

func documentID(name string) playground.DocumentID {
	return playground.DocumentID(filepath.Base(name))
}
