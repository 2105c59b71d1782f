package config

import (
	"time"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/transform"
)

const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultIndicator      = time.Second
	DefaultResizeDebounce = 200 * time.Millisecond
	DefaultTarget         = "es2017"
	DefaultLoadTimeout    = 2 * time.Second
	DefaultCacheSize      = 32
	DefaultLogLevel       = "info"
)

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Pipeline.Debounce == 0 {
		cfg.Pipeline.Debounce = DefaultDebounce
	}
	if cfg.Pipeline.Indicator == 0 {
		cfg.Pipeline.Indicator = DefaultIndicator
	}
	if cfg.Pipeline.ResizeDebounce == 0 {
		cfg.Pipeline.ResizeDebounce = DefaultResizeDebounce
	}
	if cfg.Compiler.Format == "" {
		cfg.Compiler.Format = playground.FormatCommonJS
	}
	if cfg.Compiler.Target == "" {
		cfg.Compiler.Target = DefaultTarget
	}
	if cfg.Loader.Timeout == 0 {
		cfg.Loader.Timeout = DefaultLoadTimeout
	}
	if cfg.Loader.CacheSize == 0 {
		cfg.Loader.CacheSize = DefaultCacheSize
	}
	if cfg.Transform.Name == "" {
		cfg.Transform.Name = transform.NameCSSVars
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
