package config

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/infrastructure/compiler"
	"github.com/alexisbeaulieu97/varplay/internal/transform"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	moduleFormats = map[string]struct{}{
		playground.FormatCommonJS: {},
		playground.FormatESM:      {},
		playground.FormatIIFE:     {},
	}
	logLevels = map[string]struct{}{"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {}}
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("module_format", func(fl validator.FieldLevel) bool {
			_, ok := moduleFormats[fl.Field().String()]
			return ok
		})

		_ = v.RegisterValidation("es_target", func(fl validator.FieldLevel) bool {
			return compiler.SupportsTarget(fl.Field().String())
		})

		_ = v.RegisterValidation("transform_name", func(fl validator.FieldLevel) bool {
			_, err := transform.Default().Get(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
			_, ok := logLevels[strings.ToLower(fl.Field().String())]
			return ok
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns a configured validator instance for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}
