package playground

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	t.Parallel()

	err := &DomainError{Code: ErrCodeLoad, Message: "boom"}
	require.Equal(t, "LOAD_ERROR: boom", err.Error())

	wrapped := &DomainError{Code: ErrCodeTransform, Message: "failure", Cause: err}
	require.Equal(t, "TRANSFORM_ERROR: failure: LOAD_ERROR: boom", wrapped.Error())
}

func TestDomainError_IsAndUnwrap(t *testing.T) {
	t.Parallel()

	inner := &DomainError{Code: ErrCodeTimeout, Message: "timed out"}
	outer := &DomainError{Code: ErrCodeLoad, Message: "load", Cause: inner}

	require.True(t, errors.Is(outer, inner))
	require.False(t, errors.Is(inner, outer))
	require.False(t, errors.Is(outer, fmt.Errorf("other")))
}

func TestDomainError_WithContext(t *testing.T) {
	t.Parallel()

	err := &DomainError{Code: ErrCodeLoad, Message: "missing", Context: map[string]interface{}{"module": "inline:abc"}}
	updated := err.WithContext(map[string]interface{}{"seq": 3})

	require.Equal(t, "inline:abc", updated.Context["module"])
	require.Equal(t, 3, updated.Context["seq"])
	require.NotSame(t, err, updated)
}

func TestDomainError_NilReceiver(t *testing.T) {
	t.Parallel()

	var err *DomainError
	require.Equal(t, "<nil>", err.Error())
	require.Nil(t, err.Unwrap())
	require.Nil(t, err.WithContext(map[string]interface{}{"key": "value"}))
}

func TestNewCompileErrorUsesFirstDiagnostic(t *testing.T) {
	t.Parallel()

	diags := []Diagnostic{{
		Severity: SeverityError,
		Message:  "Expected \";\" but found \"}\"",
		Range:    Range{Start: Position{Line: 2, Column: 4}},
	}}
	err := NewCompileError(errors.New("transform failed"), diags)

	require.Equal(t, ErrCodeCompile, err.Code)
	require.Contains(t, err.Message, "3:5")
	require.Len(t, err.Diagnostics, 1)
}

func TestNewLoadErrorClassifiesDeadline(t *testing.T) {
	t.Parallel()

	err := NewLoadError("inline:abc", fmt.Errorf("interrupted: %w", context.DeadlineExceeded))
	require.Equal(t, ErrCodeTimeout, CodeOf(err))

	err = NewLoadError("inline:abc", context.Canceled)
	require.Equal(t, ErrCodeCancelled, CodeOf(err))

	err = NewLoadError("inline:abc", errors.New("ReferenceError: y is not defined"))
	require.Equal(t, ErrCodeLoad, CodeOf(err))
}

func TestCodeOfPlainError(t *testing.T) {
	t.Parallel()

	require.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
	require.Equal(t, ErrCodeTransform, CodeOf(fmt.Errorf("wrap: %w", NewTransformError("cssvars", errors.New("bad")))))
}
