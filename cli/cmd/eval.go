package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/streamscore/lang"
	"github.com/ardnew/streamscore/pkg"
)

// Eval evaluates an expression over the metrics of each source.
//
// The expression sees the fields of [lang.Stats] by their expr names: score,
// garbage, groups, spans and depth.
type Eval struct {
	Expression string `arg:"" help:"Expression over score, garbage, groups, spans and depth." name:"expression"`

	Sources []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	program, err := Compile(e.Expression)
	if err != nil {
		return err
	}

	var (
		buf   bytes.Buffer
		named = len(e.Sources)+len(sourceFilesFrom(ctx)) > 1
	)

	err = parseSources(ctx, e.Sources, true,
		func(src *Source, node lang.Node) error {
			result, err := Evaluate(program, lang.Measure(node))
			if err != nil {
				return WrapError(err).With(slog.String("source", src.Name))
			}

			if named {
				fmt.Fprintf(&buf, "%s: %v\n", src.Name, result)
			} else {
				fmt.Fprintln(&buf, result)
			}

			return nil
		})
	if err != nil {
		return err
	}

	if _, err := buf.WriteTo(stdoutFrom(ctx)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// Compile compiles an expression against the [lang.Stats] environment.
func Compile(source string) (*vm.Program, error) {
	program, err := expr.Compile(source, expr.Env(lang.Stats{}))
	if err != nil {
		return nil, pkg.ErrInvalidExpression.Wrap(err).
			Wrapf("expression %q", source)
	}

	return program, nil
}

// Evaluate runs a compiled expression with the given metrics.
func Evaluate(program *vm.Program, stats lang.Stats) (any, error) {
	result, err := expr.Run(program, stats)
	if err != nil {
		return nil, pkg.ErrEvaluate.Wrap(err)
	}

	return result, nil
}
