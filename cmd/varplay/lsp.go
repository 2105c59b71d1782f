package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/infrastructure/output"
	"github.com/alexisbeaulieu97/varplay/internal/lsp"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

const (
	lspDocument   playground.DocumentID = "primary"
	defaultLSPOut                       = "varplay.css"
)

type lspOptions struct {
	out string
}

func newLSPCmd(app *AppContext) *cobra.Command {
	opts := lspOptions{}

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Serve diagnostics and live builds over the language server protocol",
		Long: `Lsp speaks LSP on stdin/stdout. The first document the client opens feeds the
build pipeline and every published artifact is written to --out. Logs go to
stderr or --log-file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "command.lsp")
			err := runLSP(ctx, app, logger, opts)
			if err != nil {
				logger.Error(ctx, "language server stopped", "error", err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", defaultLSPOut, "File the artifact is written to")

	return cmd
}

func runLSP(ctx context.Context, app *AppContext, logger ports.Logger, opts lspOptions) error {
	svc, err := app.services(logger)
	if err != nil {
		return err
	}

	surface := output.NewFileSurface(opts.out, logger.With("component", "output"))
	p, err := app.newPipeline(lspDocument, svc, surface, app.Events, logger, nil)
	if err != nil {
		return err
	}

	server, err := lsp.New(lsp.Options{
		Document: lspDocument,
		Version:  version,
		Analyzer: svc.Compiler,
		Driver:   p,
		Logger:   logger.With("component", "lsp"),
	})
	if err != nil {
		return err
	}
	surface.OnIndicator(server.Indicate)

	sub, err := app.Events.Subscribe(ports.EventBuildFailed, func(ctx context.Context, event ports.DomainEvent) error {
		fields, _ := event.Payload().(map[string]interface{})
		server.ReportFailure(fmt.Sprint(fields["error"]))
		return nil
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return p.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		return server.RunStdio()
	})

	logger.Info(ctx, "language server started", "out", opts.out)
	return g.Wait()
}
