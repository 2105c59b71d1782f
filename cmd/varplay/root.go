package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type rootFlags struct {
	configPath string
	verbose    bool
	logFile    string
}

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "varplay",
		Short:         "varplay turns TypeScript rule modules into CSS variables as you type",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return app.load(flags, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without a subcommand, open the editor when attached to a terminal.
			if !isTerminal() {
				return fmt.Errorf("varplay needs a terminal for the editor; use 'varplay build' or 'varplay lsp'")
			}
			return runEdit(cmd, app, editOptions{})
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a varplay.yaml or varplay.toml file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file instead of stderr")

	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newBuildCmd(app))
	cmd.AddCommand(newLSPCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
