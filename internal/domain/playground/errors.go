package playground

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode identifies the stage or category a build failure belongs to.
type ErrorCode string

const (
	ErrCodeCompile    ErrorCode = "COMPILE_ERROR"
	ErrCodeLoad       ErrorCode = "LOAD_ERROR"
	ErrCodeTransform  ErrorCode = "TRANSFORM_ERROR"
	ErrCodeTimeout    ErrorCode = "TIMEOUT"
	ErrCodeCancelled  ErrorCode = "CANCELLED"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// DomainError is a typed build failure enriched with contextual data.
type DomainError struct {
	Code        ErrorCode
	Message     string
	Cause       error
	Context     map[string]interface{}
	Diagnostics []Diagnostic
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another DomainError with the same code and message.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if !errors.As(target, &domainErr) {
		return false
	}
	return e.Code == domainErr.Code && e.Message == domainErr.Message
}

// WithContext clones the error with additional contextual metadata.
func (e *DomainError) WithContext(ctx map[string]interface{}) *DomainError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &DomainError{
		Code:        e.Code,
		Message:     e.Message,
		Cause:       e.Cause,
		Context:     merged,
		Diagnostics: e.Diagnostics,
	}
}

// NewCompileError reports source that could not be turned into executable text.
func NewCompileError(cause error, diagnostics []Diagnostic) *DomainError {
	message := "compilation failed"
	if len(diagnostics) > 0 {
		message = diagnostics[0].String()
	}
	return &DomainError{
		Code:        ErrCodeCompile,
		Message:     message,
		Cause:       cause,
		Diagnostics: diagnostics,
		Context:     map[string]interface{}{"diagnostics": len(diagnostics)},
	}
}

// NewLoadError reports executable text that failed to evaluate. Deadline and
// cancellation causes are classified under their own codes.
func NewLoadError(module string, cause error) *DomainError {
	code := ErrCodeLoad
	message := "module evaluation failed"
	switch {
	case errors.Is(cause, context.DeadlineExceeded):
		code = ErrCodeTimeout
		message = "module evaluation timed out"
	case errors.Is(cause, context.Canceled):
		code = ErrCodeCancelled
		message = "module evaluation cancelled"
	}
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: map[string]interface{}{"module": module},
	}
}

// NewTransformError reports a module value the transform could not consume.
func NewTransformError(transform string, cause error) *DomainError {
	return &DomainError{
		Code:    ErrCodeTransform,
		Message: "transform failed",
		Cause:   cause,
		Context: map[string]interface{}{"transform": transform},
	}
}

// CodeOf returns the code of the first DomainError in err's chain, or
// ErrCodeInternal when err carries none.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrCodeInternal
}
