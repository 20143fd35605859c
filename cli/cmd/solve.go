package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/streamscore/lang"
	"github.com/ardnew/streamscore/log"
	"github.com/ardnew/streamscore/pkg"
)

// Solve parses each source and reports its score and garbage length.
type Solve struct {
	Format  string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})."                     short:"o"`
	Snippet bool   `default:"true"                       help:"Show the offending line in parse errors." negatable:""`

	Sources []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Report is the result of solving one source.
type Report struct {
	Source     string `json:"source"          yaml:"source"`
	lang.Stats `json:",inline" yaml:",inline"`
}

// Run executes the solve command.
func (s *Solve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var reports []Report

	err = parseSources(ctx, s.Sources, s.Snippet,
		func(src *Source, node lang.Node) error {
			stats := lang.Measure(node)

			log.DebugContext(ctx, "solved",
				slog.String("source", src.Name),
				slog.Int("score", stats.Score),
				slog.Int("garbage", stats.GarbageLength))

			reports = append(reports, Report{Source: src.Name, Stats: stats})

			return nil
		})
	if err != nil {
		return err
	}

	return writeReports(ctx, stdoutFrom(ctx), s.Format, reports)
}

// writeReports writes reports in the given format. A single report is
// written as an object (or two plain lines of text); several are written as
// a list (or as text sections headed by the source name).
func writeReports(
	ctx context.Context,
	w io.Writer,
	format string,
	reports []Report,
) error {
	var value any = reports
	if len(reports) == 1 {
		value = reports[0]
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil

	case "yaml":
		data, err := yaml.MarshalContext(ctx, value, yaml.Indent(2))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		if _, err := w.Write(data); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil

	case "text":
		for i, r := range reports {
			if len(reports) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}

				fmt.Fprintf(w, "==> %s <==\n", r.Source)
			}

			_, err := fmt.Fprintf(w, "Part 1: %d\nPart 2: %d\n",
				r.Score, r.GarbageLength)
			if err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		return nil

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (valid: text, json, yaml)", format)
	}
}
