package config

import "time"

// Config is the varplay configuration document.
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" toml:"pipeline"`
	Compiler  CompilerConfig  `yaml:"compiler" toml:"compiler"`
	Loader    LoaderConfig    `yaml:"loader" toml:"loader"`
	Transform TransformConfig `yaml:"transform" toml:"transform"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// PipelineConfig tunes the change pipeline and the surfaces around it.
type PipelineConfig struct {
	Debounce       time.Duration `yaml:"debounce" toml:"debounce" validate:"min=0,max=1m"`
	Indicator      time.Duration `yaml:"indicator" toml:"indicator" validate:"min=0,max=1m"`
	ResizeDebounce time.Duration `yaml:"resize_debounce" toml:"resize_debounce" validate:"min=0,max=10s"`
}

// CompilerConfig selects what the compiler emits.
type CompilerConfig struct {
	Format         string `yaml:"format" toml:"format" validate:"module_format"`
	Target         string `yaml:"target" toml:"target" validate:"es_target"`
	RemoveComments *bool  `yaml:"remove_comments" toml:"remove_comments"`
}

// StripComments reports whether comments are removed, defaulting to true.
func (c CompilerConfig) StripComments() bool {
	return c.RemoveComments == nil || *c.RemoveComments
}

// LoaderConfig bounds module evaluation.
type LoaderConfig struct {
	Timeout   time.Duration `yaml:"timeout" toml:"timeout" validate:"min=0,max=1m"`
	CacheSize int           `yaml:"cache_size" toml:"cache_size" validate:"min=0,max=4096"`
}

// TransformConfig names the transform applied to module exports.
type TransformConfig struct {
	Name string `yaml:"name" toml:"name" validate:"transform_name"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level" toml:"level" validate:"log_level"`
	File  string `yaml:"file" toml:"file"`
	Human bool   `yaml:"human" toml:"human"`
}
