package pipeline

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

// Builder runs the build step: compile, load, transform. Compile is
// synchronous; Finish does the suspending half.
type Builder struct {
	compiler    ports.Compiler
	evaluator   ports.Evaluator
	transformer ports.Transformer
}

// NewBuilder wires the three build collaborators.
func NewBuilder(compiler ports.Compiler, evaluator ports.Evaluator, transformer ports.Transformer) (*Builder, error) {
	switch {
	case compiler == nil:
		return nil, fmt.Errorf("builder requires a compiler")
	case evaluator == nil:
		return nil, fmt.Errorf("builder requires an evaluator")
	case transformer == nil:
		return nil, fmt.Errorf("builder requires a transformer")
	}
	return &Builder{compiler: compiler, evaluator: evaluator, transformer: transformer}, nil
}

// Compile turns source into executable text.
func (b *Builder) Compile(source string) (string, error) {
	return b.compiler.Compile(source)
}

// Finish loads executable text and transforms its exports into an artifact.
func (b *Builder) Finish(ctx context.Context, executable string) (string, error) {
	exports, err := b.evaluator.Load(ctx, executable)
	if err != nil {
		return "", err
	}
	return b.transformer.Transform(exports)
}

// Build runs all three stages back to back.
func (b *Builder) Build(ctx context.Context, source string) (string, error) {
	executable, err := b.Compile(source)
	if err != nil {
		return "", err
	}
	return b.Finish(ctx, executable)
}

// TransformName returns the name of the configured transform.
func (b *Builder) TransformName() string {
	return b.transformer.Name()
}
