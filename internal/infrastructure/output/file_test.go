package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/alexisbeaulieu97/varplay/pkg/errors"
)

func TestWriteAtomicCreatesDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "theme.css")
	require.NoError(t, WriteAtomic(path, []byte(":root {}\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":root {}\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteAtomicReplacesContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "theme.css")
	require.NoError(t, WriteAtomic(path, []byte("first")))
	require.NoError(t, WriteAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriteAtomicReportsIOError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := WriteAtomic(dir, []byte("x"))
	require.Error(t, err)

	var ioErr *pkgerrors.IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestFileSurface(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.css")
	s := NewFileSurface(path, nil)

	var flashes []bool
	s.OnIndicator(func(active bool, target string) {
		assert.Equal(t, path, target)
		flashes = append(flashes, active)
	})

	s.ShowOutput("a")
	s.ShowIndicator(true)
	s.ShowIndicator(false)

	require.NoError(t, s.Err())
	assert.Equal(t, 1, s.Written())
	assert.Equal(t, []bool{true, false}, flashes)
	assert.Equal(t, path, s.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestFileSurfaceKeepsWriteError(t *testing.T) {
	t.Parallel()

	s := NewFileSurface(t.TempDir(), nil)
	s.ShowOutput("x")

	assert.Error(t, s.Err())
	assert.Zero(t, s.Written())
}
