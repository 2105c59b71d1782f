// Package compiler adapts esbuild's transform API into the playground's
// compiler and analyzer ports.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/alexisbeaulieu97/varplay/internal/domain/playground"
	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

const diagnosticSource = "esbuild"

var formats = map[string]api.Format{
	playground.FormatCommonJS: api.FormatCommonJS,
	playground.FormatESM:      api.FormatESModule,
	playground.FormatIIFE:     api.FormatIIFE,
}

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

// SupportsTarget reports whether name is a language target New accepts.
func SupportsTarget(name string) bool {
	_, ok := targets[strings.ToLower(name)]
	return ok
}

// Options configures the emitted module.
type Options struct {
	Format         string
	Target         string
	RemoveComments bool
	SourceName     string
}

// ESBuild transpiles TypeScript with esbuild. It holds no state between calls.
type ESBuild struct {
	opts api.TransformOptions
}

// New validates opts and returns a compiler.
func New(opts Options) (*ESBuild, error) {
	format := opts.Format
	if format == "" {
		format = playground.FormatCommonJS
	}
	apiFormat, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported module format %q", opts.Format)
	}

	target := strings.ToLower(opts.Target)
	if target == "" {
		target = "es2017"
	}
	apiTarget, ok := targets[target]
	if !ok {
		return nil, fmt.Errorf("unsupported target %q", opts.Target)
	}

	legal := api.LegalCommentsInline
	if opts.RemoveComments {
		legal = api.LegalCommentsNone
	}

	name := opts.SourceName
	if name == "" {
		name = "playground.ts"
	}

	transform := api.TransformOptions{
		Loader:        api.LoaderTS,
		Format:        apiFormat,
		Target:        apiTarget,
		LegalComments: legal,
		Sourcefile:    name,
		LogLevel:      api.LogLevelSilent,
	}
	if apiFormat == api.FormatIIFE {
		transform.GlobalName = playground.IIFEGlobal
	}

	return &ESBuild{opts: transform}, nil
}

// Compile implements ports.Compiler. Syntax errors come back as a
// *playground.DomainError with code COMPILE_ERROR.
func (c *ESBuild) Compile(source string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = playground.NewCompileError(fmt.Errorf("compiler panic: %v", r), nil)
		}
	}()

	result := api.Transform(source, c.opts)
	if len(result.Errors) > 0 {
		diags := toDiagnostics(result.Errors, playground.SeverityError)
		return "", playground.NewCompileError(errors.New(result.Errors[0].Text), diags)
	}
	return string(result.Code), nil
}

// Diagnose implements ports.Analyzer by running the same transform and
// reporting its messages instead of its output.
func (c *ESBuild) Diagnose(snap playground.Snapshot) playground.DiagnosticSet {
	set := playground.DiagnosticSet{Document: snap.Document, Revision: snap.Revision}

	opts := c.opts
	if snap.Document != "" {
		opts.Sourcefile = string(snap.Document)
	}
	result := api.Transform(snap.Text, opts)
	set.Items = append(set.Items, toDiagnostics(result.Errors, playground.SeverityError)...)
	set.Items = append(set.Items, toDiagnostics(result.Warnings, playground.SeverityWarning)...)
	return set
}

func toDiagnostics(messages []api.Message, severity playground.Severity) []playground.Diagnostic {
	if len(messages) == 0 {
		return nil
	}
	out := make([]playground.Diagnostic, 0, len(messages))
	for _, msg := range messages {
		d := playground.Diagnostic{
			Severity: severity,
			Message:  msg.Text,
			Source:   diagnosticSource,
		}
		if loc := msg.Location; loc != nil {
			line := loc.Line - 1
			if line < 0 {
				line = 0
			}
			d.Range = playground.Range{
				Start: playground.Position{Line: line, Column: loc.Column},
				End:   playground.Position{Line: line, Column: loc.Column + loc.Length},
			}
		}
		out = append(out, d)
	}
	return out
}

var (
	_ ports.Compiler = (*ESBuild)(nil)
	_ ports.Analyzer = (*ESBuild)(nil)
)
