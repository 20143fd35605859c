package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/streamscore/lang"
)

// Fmt parses input and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical stream syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// Native writes the canonical skeleton of each stream: groups and garbage
// only, with filler removed.
type Native struct {
	Indent int `default:"0" help:"Indent width; 0 writes each stream on one line." short:"i"`

	Sources []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	return formatSources(ctx, "native", f.Sources,
		func(w io.Writer, node lang.Node) error {
			return lang.Format(w, node, f.Indent)
		})
}

// JSON writes each stream as nested JSON arrays of garbage strings.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Sources []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the json format command.
func (j *JSON) Run(ctx context.Context) error {
	return formatSources(ctx, "json", j.Sources,
		func(w io.Writer, node lang.Node) error {
			return lang.FormatJSON(w, node, j.Indent)
		})
}

// YAML writes each stream as nested YAML sequences of garbage strings.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 uses flow style." short:"i"`

	Sources []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the yaml format command.
func (y *YAML) Run(ctx context.Context) error {
	return formatSources(ctx, "yaml", y.Sources,
		func(w io.Writer, node lang.Node) error {
			return lang.FormatYAML(ctx, w, node, y.Indent)
		})
}

// AST writes an indented tree with group depth and garbage length per node.
type AST struct {
	Sources []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the ast format command.
func (a *AST) Run(ctx context.Context) error {
	return formatSources(ctx, "ast", a.Sources, lang.Print)
}

func formatSources(
	ctx context.Context,
	format string,
	sources []string,
	write func(io.Writer, lang.Node) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var buf bytes.Buffer

	err = parseSources(ctx, sources, true,
		func(src *Source, node lang.Node) error {
			if err := write(&buf, node); err != nil {
				return ErrWriteOutput.Wrap(err).
					With(slog.String("source", src.Name))
			}

			return nil
		})
	if err != nil {
		return WrapError(err).With(slog.String("format", format))
	}

	if _, err := buf.WriteTo(stdoutFrom(ctx)); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", format))
	}

	return nil
}
