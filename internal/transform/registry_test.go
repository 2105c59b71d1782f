package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := Default()
	assert.Equal(t, []string{NameCSSVars, NameJSON}, r.Names())

	tr, err := r.Get(NameCSSVars)
	require.NoError(t, err)
	assert.Equal(t, NameCSSVars, tr.Name())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(JSON{}))
	require.Error(t, r.Register(JSON{}))
}

func TestRegistryGetUnknown(t *testing.T) {
	t.Parallel()

	_, err := Default().Get("sass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sass")
}
