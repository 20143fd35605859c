package cmd

import (
	"context"

	"github.com/ardnew/streamscore/cli/cmd/repl"
	"github.com/ardnew/streamscore/log"
	"github.com/ardnew/streamscore/pkg"
)

// Repl starts an interactive session that scores each entered stream.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	cacheDir := pkg.CacheDir()

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			cacheDir = dir
		}
	}

	return repl.Run(ctx, cacheDir, log.Default())
}
