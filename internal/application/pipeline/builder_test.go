package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
)

func TestBuilderBuild(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder(&stubCompiler{}, &stubEvaluator{}, stubTransformer{})
	require.NoError(t, err)

	out, err := b.Build(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "artifact(x)", out)
	assert.Equal(t, "stub", b.TransformName())
}

func TestBuilderStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	ev := &stubEvaluator{}
	b, err := NewBuilder(&stubCompiler{}, ev, stubTransformer{})
	require.NoError(t, err)

	_, err = b.Build(context.Background(), "syntax error")
	require.Error(t, err)
	assert.Equal(t, playground.ErrCodeCompile, playground.CodeOf(err))
	assert.Zero(t, ev.calls.Load())
}

func TestNewBuilderRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(nil, &stubEvaluator{}, stubTransformer{})
	assert.ErrorContains(t, err, "compiler")
	_, err = NewBuilder(&stubCompiler{}, nil, stubTransformer{})
	assert.ErrorContains(t, err, "evaluator")
	_, err = NewBuilder(&stubCompiler{}, &stubEvaluator{}, nil)
	assert.ErrorContains(t, err, "transformer")
}
