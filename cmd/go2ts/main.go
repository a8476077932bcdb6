// Package main provides the CLI entrypoint for go2ts.
//
// go2ts transpiles Go packages to TypeScript:
//   - Loads packages (AST + go/types) one file at a time
//   - Prints each file through a chain of adapter layers
//   - Lets rule files map types, annotate declarations and rewrite calls
//   - Writes one .ts file per Go file plus an index.ts per package
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"go2ts/cmd/go2ts/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		stop()
		os.Exit(1)
	}
}
