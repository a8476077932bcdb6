// Package commands implements the go2ts command line.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the go2ts command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "go2ts",
		Short: "Transpile Go packages to TypeScript",
		Long: `go2ts - a Go to TypeScript transpiler with stackable adapter layers.

Every file is printed through a chain of adapter layers. The root layer
(typescript) lowers the Go builtins; layers stacked over it customize
the output further. Rule files add type mappings, annotations, erased
types and call templates without writing Go code.

Available commands:
  transpile - Transpile packages once
  watch     - Transpile packages again whenever their sources change
  adapters  - List the built-in adapter layers
  check     - Validate rule files

Every flag can also be set through a GO2TS_<FLAG> environment variable
(GO2TS_OUTPUT, GO2TS_NO_HEADER, ...).

Examples:
  go2ts transpile ./examples/store                   # print to stdout
  go2ts transpile -o web/gen ./...                   # write a tree
  go2ts transpile -r go2ts.yaml -a stdlib,docs ./... # custom chain
  go2ts check -r go2ts.yaml --dump ./...             # inspect the rules`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Development logging at debug level")

	root.AddCommand(
		newTranspileCmd(),
		newWatchCmd(),
		newAdaptersCmd(),
		newCheckCmd(),
	)

	return root
}
