package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	varplayerrors "github.com/alexisbeaulieu97/varplay/pkg/errors"
)

var ruleHints = map[string]string{
	"module_format":  "must be one of cjs, esm, iife",
	"es_target":      "must be es2015 through es2022 or esnext",
	"transform_name": "must name a registered transform",
	"log_level":      "must be one of trace, debug, info, warn, error",
}

// Validate performs schema and cross-field validation on cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return varplayerrors.NewValidationError("config", "configuration is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	// Only the build command's --emit js can use esm text; the sandbox has no
	// module linker.
	if cfg.Compiler.Format == playground.FormatESM {
		return varplayerrors.NewValidationError("compiler.format",
			"esm output cannot be loaded by the in-memory loader; use cjs or iife", nil)
	}

	return nil
}

// convertValidationError normalizes validator errors into varplay validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := fieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		if hint, ok := ruleHints[ve.Tag()]; ok {
			msg = fmt.Sprintf("%s %s, got %q", field, hint, fmt.Sprint(ve.Value()))
		}
		return varplayerrors.NewValidationError(field, msg, err)
	}

	return varplayerrors.NewValidationError("config", err.Error(), err)
}

// fieldName renders a validator namespace like Config.Pipeline.ResizeDebounce
// as the file key pipeline.resize_debounce.
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = snake(part)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
