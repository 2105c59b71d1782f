package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/gate"
	"github.com/alexisbeaulieu97/varplay/internal/infrastructure/compiler"
	"github.com/alexisbeaulieu97/varplay/internal/infrastructure/output"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
	"github.com/alexisbeaulieu97/varplay/pkg/diff"
)

type buildOptions struct {
	out    string
	emit   string
	format string
	check  bool
}

func newBuildCmd(app *AppContext) *cobra.Command {
	opts := buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Build a rule module once and print or write its artifact",
		Long: `Build compiles a TypeScript rule module, evaluates it and applies the
configured transform. The source is read from the file argument or from stdin.
Error diagnostics stop the build with exit code 2; --check exits with 3 when
the --out file is out of date.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateBuildOptions(opts); err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if err := validateSourcePath(path); err != nil {
				return err
			}

			ctx, logger := app.CommandContext(cmd, "command.build")
			err := runBuild(ctx, cmd, app, logger, path, opts)
			if err != nil {
				logger.Debug(ctx, "build command failed", "error", err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the artifact to this file")
	cmd.Flags().StringVar(&opts.emit, "emit", emitArtifact, "What to print: artifact or js")
	cmd.Flags().StringVar(&opts.format, "format", "", "Module format for --emit js (cjs, esm or iife)")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Fail if --out differs from a fresh build instead of writing it")

	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, app *AppContext, logger ports.Logger, path string, opts buildOptions) error {
	source, name, err := readSource(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if opts.emit == emitJS {
		return emitExecutable(cmd.OutOrStdout(), app, source, name, opts)
	}

	svc, err := app.services(logger)
	if err != nil {
		return err
	}

	doc := documentID(name)
	snap := playground.Snapshot{Document: doc, Text: source}
	set := svc.Compiler.Diagnose(snap)
	printDiagnostics(cmd.ErrOrStderr(), name, set)

	g := gate.New()
	g.Record(set)
	if verdict := g.Check(doc, snap.Revision); verdict.Blocked {
		return &gatedError{errors: len(verdict.Errors)}
	}

	artifact, err := svc.Builder.Build(ctx, source)
	if err != nil {
		return err
	}
	logger.Info(ctx, "build finished", "source", name, "transform", svc.Transformer.Name(), "bytes", len(artifact))

	switch {
	case opts.check:
		return checkArtifact(cmd.OutOrStdout(), opts.out, artifact)
	case opts.out != "":
		return output.WriteAtomic(opts.out, []byte(artifact))
	default:
		_, err := io.WriteString(cmd.OutOrStdout(), artifact)
		return err
	}
}

// emitExecutable prints the transpiled module. Any format is allowed here,
// including esm, since nothing evaluates the result.
func emitExecutable(w io.Writer, app *AppContext, source, name string, opts buildOptions) error {
	format := opts.format
	if format == "" {
		format = app.Config.Compiler.Format
	}
	comp, err := compiler.New(compiler.Options{
		Format:         format,
		Target:         app.Config.Compiler.Target,
		RemoveComments: app.Config.Compiler.StripComments(),
		SourceName:     name,
	})
	if err != nil {
		return err
	}
	executable, err := comp.Compile(source)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, executable)
	return err
}

func checkArtifact(w io.Writer, path, artifact string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if string(existing) == artifact {
		return nil
	}
	fmt.Fprint(w, diff.GenerateUnifiedDiff(existing, []byte(artifact), path, path+" (rebuilt)"))
	return &driftError{path: path}
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	noteLabel    = color.New(color.FgCyan).SprintFunc()
	locationText = color.New(color.Bold).SprintFunc()
)

func printDiagnostics(w io.Writer, name string, set playground.DiagnosticSet) {
	for _, d := range set.Items {
		var label string
		switch d.Severity {
		case playground.SeverityError:
			label = errorLabel(d.Severity.String())
		case playground.SeverityWarning:
			label = warningLabel(d.Severity.String())
		default:
			label = noteLabel(d.Severity.String())
		}
		location := fmt.Sprintf("%s:%d:%d", name, d.Range.Start.Line+1, d.Range.Start.Column+1)
		fmt.Fprintf(w, "%s: %s: %s\n", locationText(location), label, d.Message)
	}
}
