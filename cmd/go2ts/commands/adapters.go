package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"go2ts/internal/adapters"
)

func newAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the built-in adapter layers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			desc, _ := adapters.Describe(adapters.RootName)
			fmt.Fprintf(out, "%-10s %s (root, always present)\n", adapters.RootName, desc)

			for _, name := range adapters.Names() {
				desc, _ := adapters.Describe(name)
				fmt.Fprintf(out, "%-10s %s\n", name, desc)
			}

			return nil
		},
	}
}
