package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/varplay/internal/application/pipeline"
	"github.com/alexisbeaulieu97/varplay/internal/config"
	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/gate"
	"github.com/alexisbeaulieu97/varplay/internal/infrastructure/compiler"
	"github.com/alexisbeaulieu97/varplay/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/varplay/internal/infrastructure/loader"
	logginginfra "github.com/alexisbeaulieu97/varplay/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
	"github.com/alexisbeaulieu97/varplay/internal/sink"
	"github.com/alexisbeaulieu97/varplay/internal/transform"
)

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Config     *config.Config
	ConfigPath string
	Logger     ports.Logger
	Events     ports.EventPublisher

	logFile io.Closer
}

// playgroundServices are the stateless collaborators a pipeline is built from.
type playgroundServices struct {
	Compiler    *compiler.ESBuild
	Loader      *loader.Goja
	Transformer ports.Transformer
	Builder     *pipeline.Builder
}

func newAppContext() *AppContext {
	return &AppContext{}
}

// load resolves the configuration, applies flag overrides and creates the
// logger. Services that already exist (tests inject them) are kept.
func (a *AppContext) load(flags *rootFlags, stderr io.Writer) error {
	if a.Config == nil {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		cfg, path, err := config.Resolve(flags.configPath, dir)
		if err != nil {
			return err
		}
		a.Config = cfg
		a.ConfigPath = path
	}

	if flags.verbose {
		a.Config.Log.Level = "debug"
	}
	if flags.logFile != "" {
		a.Config.Log.File = flags.logFile
	}
	if err := config.Validate(a.Config); err != nil {
		return err
	}

	if a.Logger == nil {
		writer := stderr
		if a.Config.Log.File != "" {
			f, err := os.OpenFile(a.Config.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			a.logFile = f
			writer = f
		}
		logger, err := logginginfra.New(logginginfra.Options{
			Writer:        writer,
			Level:         a.Config.Log.Level,
			HumanReadable: a.Config.Log.Human,
			Layer:         "interface",
			Component:     "cli",
		})
		if err != nil {
			return err
		}
		a.Logger = logger
	}

	if a.Events == nil {
		a.Events = events.NewLoggingPublisher(a.Logger.With("component", "events"))
	}
	return nil
}

// CommandContext returns a context carrying a fresh correlation ID and a
// logger scoped to the command.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ports.WithCorrelationID(ctx, ports.GenerateCorrelationID())

	logger := a.Logger
	if logger == nil {
		logger = logginginfra.Discard()
	}
	logger = logger.With("component", component)
	if a.ConfigPath != "" {
		logger = logger.With("config", a.ConfigPath)
	}
	return ctx, logger
}

// Close releases the log file, if one was opened.
func (a *AppContext) Close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func (a *AppContext) services(logger ports.Logger) (*playgroundServices, error) {
	cfg := a.Config

	comp, err := compiler.New(compiler.Options{
		Format:         cfg.Compiler.Format,
		Target:         cfg.Compiler.Target,
		RemoveComments: cfg.Compiler.StripComments(),
	})
	if err != nil {
		return nil, err
	}

	ld, err := loader.New(loader.Options{
		Format:    cfg.Compiler.Format,
		Timeout:   cfg.Loader.Timeout,
		CacheSize: cfg.Loader.CacheSize,
		Logger:    logger.With("component", "loader"),
	})
	if err != nil {
		return nil, err
	}

	tr, err := transform.Default().Get(cfg.Transform.Name)
	if err != nil {
		return nil, err
	}

	builder, err := pipeline.NewBuilder(comp, ld, tr)
	if err != nil {
		return nil, err
	}

	return &playgroundServices{Compiler: comp, Loader: ld, Transformer: tr, Builder: builder}, nil
}

// newPipeline wires a change pipeline that publishes through surface.
func (a *AppContext) newPipeline(doc playground.DocumentID, svc *playgroundServices, surface ports.OutputSurface, publisher ports.EventPublisher, logger ports.Logger, onOutcome func(playground.Outcome)) (*pipeline.Pipeline, error) {
	out := sink.New(surface, sink.Options{Indicator: a.Config.Pipeline.Indicator})
	return pipeline.New(pipeline.Options{
		Document:  doc,
		Debounce:  a.Config.Pipeline.Debounce,
		Gate:      gate.New(),
		Builder:   svc.Builder,
		Sink:      out,
		Events:    publisher,
		Logger:    logger.With("component", "pipeline"),
		OnOutcome: onOutcome,
	})
}
