// Package output persists published artifacts to disk.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexisbeaulieu97/varplay/internal/ports"
	pkgerrors "github.com/alexisbeaulieu97/varplay/pkg/errors"
)

// WriteAtomic replaces path with data through a temporary sibling file, so
// readers never observe a partially written artifact.
func WriteAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.NewIOError("create directory", dir, err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return pkgerrors.NewIOError("write", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return pkgerrors.NewIOError("rename", path, err)
	}
	return nil
}

// FileSurface is an output surface backed by a file. The indicator is
// forwarded to an optional hook since a file has nothing to flash.
type FileSurface struct {
	path   string
	logger ports.Logger

	mu          sync.Mutex
	onIndicator func(active bool, path string)
	written     int
	lastErr     error
}

// NewFileSurface writes every shown artifact to path.
func NewFileSurface(path string, logger ports.Logger) *FileSurface {
	return &FileSurface{path: path, logger: logger}
}

// Path returns the target file.
func (s *FileSurface) Path() string {
	return s.path
}

// OnIndicator installs the indicator hook.
func (s *FileSurface) OnIndicator(hook func(active bool, path string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onIndicator = hook
}

// ShowOutput implements ports.OutputSurface.
func (s *FileSurface) ShowOutput(artifact string) {
	err := WriteAtomic(s.path, []byte(artifact))

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.written++
	}
	s.mu.Unlock()

	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Error(context.Background(), "failed to write artifact", "path", s.path, "error", err)
		return
	}
	s.logger.Debug(context.Background(), "artifact written", "path", s.path, "bytes", len(artifact))
}

// ShowIndicator implements ports.OutputSurface.
func (s *FileSurface) ShowIndicator(active bool) {
	s.mu.Lock()
	hook := s.onIndicator
	s.mu.Unlock()
	if hook != nil {
		hook(active, s.path)
	}
}

// Written returns how many artifacts were written successfully.
func (s *FileSurface) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Err returns the error of the most recent write, if any.
func (s *FileSurface) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr != nil {
		return fmt.Errorf("artifact surface: %w", s.lastErr)
	}
	return nil
}

var _ ports.OutputSurface = (*FileSurface)(nil)
