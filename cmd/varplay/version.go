package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// engines are the modules that decide how rule modules compile and run.
var engines = []struct {
	name string
	path string
}{
	{"esbuild", "github.com/evanw/esbuild"},
	{"goja", "github.com/dop251/goja"},
}

var readBuildInfo = debug.ReadBuildInfo

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display build information and the embedded compiler and runtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion(cmd.OutOrStdout())
			return nil
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "varplay %s (commit %s, built %s)\n", version, commit, date)

	info, ok := readBuildInfo()
	if ok {
		fmt.Fprintf(w, "go: %s\n", info.GoVersion)
	}
	for _, engine := range engines {
		fmt.Fprintf(w, "%s: %s\n", engine.name, moduleVersion(info, engine.path))
	}
}

func moduleVersion(info *debug.BuildInfo, path string) string {
	if info == nil {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version + " (replaced)"
		}
		return dep.Version
	}
	return "unknown"
}
