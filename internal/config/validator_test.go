package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	varplayerrors "github.com/alexisbeaulieu97/varplay/pkg/errors"
)

func TestValidateDefaults(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(Default()))
}

func TestValidateNil(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))
}

func TestValidateRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "unknown format", mutate: func(c *Config) { c.Compiler.Format = "amd" }, field: "compiler.format"},
		{name: "unknown target", mutate: func(c *Config) { c.Compiler.Target = "es5" }, field: "compiler.target"},
		{name: "unknown transform", mutate: func(c *Config) { c.Transform.Name = "sass" }, field: "transform.name"},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }, field: "log.level"},
		{name: "debounce too long", mutate: func(c *Config) { c.Pipeline.Debounce = 2 * time.Minute }, field: "pipeline.debounce"},
		{name: "resize debounce too long", mutate: func(c *Config) { c.Pipeline.ResizeDebounce = time.Minute }, field: "pipeline.resize_debounce"},
		{name: "cache too large", mutate: func(c *Config) { c.Loader.CacheSize = 1 << 20 }, field: "loader.cache_size"},
		{name: "esm cannot be loaded", mutate: func(c *Config) { c.Compiler.Format = "esm" }, field: "compiler.format"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var validationErr *varplayerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestValidateHintsMentionAllowedValues(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Compiler.Format = "amd"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cjs, esm, iife")
	assert.Contains(t, err.Error(), `"amd"`)
}

func TestSnake(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "resize_debounce", snake("ResizeDebounce"))
	assert.Equal(t, "pipeline", snake("Pipeline"))
}
