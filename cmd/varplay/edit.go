package main

import (
	"context"
	_ "embed"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/infrastructure/events"
	logginginfra "github.com/alexisbeaulieu97/varplay/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/varplay/internal/tui"
)

//go:embed example.ts
var exampleSource string

const (
	exampleName     = "playground.ts"
	editLogCapacity = 2000
)

type editOptions struct {
	path string
}

func newEditCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive playground",
		Long: `Edit opens a TypeScript editor next to a live output pane. The output is
rebuilt once the text has no error diagnostics and typing has paused. The file
argument only seeds the editor; edits are never written back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := editOptions{}
			if len(args) == 1 {
				opts.path = args[0]
			}
			return runEdit(cmd, app, opts)
		},
	}

	return cmd
}

func runEdit(cmd *cobra.Command, app *AppContext, opts editOptions) error {
	ctx, logger := app.CommandContext(cmd, "command.edit")

	source, name := exampleSource, exampleName
	if opts.path != "" {
		if err := validateSourcePath(opts.path); err != nil {
			return err
		}
		var err error
		source, name, err = readSource(opts.path, cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	// The TUI owns the terminal; collect logs and replay them on exit.
	held := logginginfra.NewDeferred(editLogCapacity)
	buffered := held.Logger().With("component", "command.edit")
	defer held.Replay(logger)

	svc, err := app.services(buffered)
	if err != nil {
		return err
	}

	surface := tui.NewChannelSurface()
	defer surface.Close()

	doc := documentID(name)
	p, err := app.newPipeline(doc, svc, surface, events.NewLoggingPublisher(buffered), buffered, surface.Outcome)
	if err != nil {
		return err
	}

	model := tui.NewModel(tui.Options{
		Title:          "varplay · " + name,
		Document:       doc,
		Source:         source,
		Transform:      svc.Transformer.Name(),
		Driver:         p,
		Analyzer:       svc.Compiler,
		Surface:        surface,
		ResizeDebounce: app.Config.Pipeline.ResizeDebounce,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return p.Run(gctx) })
	p.BuildNow(playground.Snapshot{Document: doc, Text: source})

	buffered.Info(ctx, "editor started", "source", name, "transform", svc.Transformer.Name())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	cancel()
	surface.Close()
	waitErr := g.Wait()

	if runErr != nil {
		return fmt.Errorf("failed to run editor: %w", runErr)
	}
	return waitErr
}
