package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"go2ts/internal/adapter"
	"go2ts/internal/adapters"
	"go2ts/internal/analyze"
	"go2ts/internal/mapping"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Validate rule files",
		Long: `Validate the rule files given with --rules.

Without packages only the structure is checked. With packages the type
names the rules mention are checked against the loaded types too, and
unknown names come with suggestions.

--dump builds the adapter chain from the rules and prints the shared
context it fills: type mappings, annotation rules and registered
erased types.`,
		RunE: runCheck,
	}

	cmd.Flags().StringSliceP("rules", "r", nil, "Rule files (YAML or TOML), merged in order")
	cmd.Flags().StringSliceP("adapters", "a", nil, "Adapter layers to build for --dump")
	cmd.Flags().String("dir", "", "Directory to load packages from (default: current directory)")
	cmd.Flags().Bool("dump", false, "Print the shared context built from the rules")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	s := Settings{
		Rules:    splitList(v.GetStringSlice("rules")),
		Adapters: splitList(v.GetStringSlice("adapters")),
		Dir:      v.GetString("dir"),
	}

	if len(s.Rules) == 0 {
		return errors.WithHint(errors.New("no rule files given"), "pass one or more with --rules")
	}

	rf, err := loadRules(s.Rules)
	if err != nil {
		return err
	}

	known := mapping.Known{Adapters: adapters.Names(), Root: adapters.RootName}

	if len(args) > 0 {
		analyzer := analyze.NewAnalyzer()
		analyzer.Dir = s.Dir

		if _, err := analyzer.LoadPackages(args...); err != nil {
			return err
		}

		mapping.Resolve(rf, analyzer.Index())
		known.Index = analyzer.Index()
	}

	out := cmd.OutOrStdout()

	diags := mapping.Validate(rf, known)
	printDiagnostics(out, diags)

	if v.GetBool("dump") && diags.IsValid() {
		ctx := adapter.NewContext()
		if _, err := adapters.Build(ctx, chainNames(s, rf), adapters.WithRules(rf)); err != nil {
			return err
		}

		dumpConfig.Fdump(out, ctx)
	}

	if err := diags.Error(); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ %d rule file(s) valid\n", len(s.Rules))

	return nil
}
