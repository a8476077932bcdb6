package commands

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"go2ts/internal/gen"
)

func newTranspileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transpile [packages]",
		Short: "Transpile Go packages to TypeScript",
		Long: `Transpile every file of the given packages to TypeScript.

Each Go file becomes one .ts file under the directory of its package
path, and each package gets an index.ts re-exporting its files.

With --check nothing is written: the command fails when files under the
output directory are missing or differ from what would be generated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTranspile,
	}

	addRunFlags(cmd.Flags())
	cmd.Flags().Bool("check", false, "Fail when the output directory is out of date instead of writing")

	return cmd
}

func runTranspile(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(s.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	outcome, err := transpile(cmd.Context(), s, args, logger)
	if err != nil {
		return err
	}

	res := outcome.result
	printDiagnostics(cmd.ErrOrStderr(), &res.Diagnostics)

	check, _ := cmd.Flags().GetBool("check")
	if check {
		return checkUpToDate(cmd, s, res)
	}

	if err := emit(cmd.OutOrStdout(), s, res); err != nil {
		return err
	}

	return problemsError(&res.Diagnostics)
}

func checkUpToDate(cmd *cobra.Command, s Settings, res *gen.Result) error {
	if s.Output == "" {
		return errors.New("--check needs an output directory")
	}

	stale, err := gen.StaleFiles(res.Files, s.Output)
	if err != nil {
		return err
	}

	if len(stale) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ TypeScript output is up to date")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✗ TypeScript output is out of date:")
	for _, name := range stale {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
	}

	return errors.WithHint(
		errors.Newf("%d file(s) out of date", len(stale)),
		"run `go2ts transpile -o "+s.Output+" "+strings.Join(cmd.Flags().Args(), " ")+"` to update",
	)
}
