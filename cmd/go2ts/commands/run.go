package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"go2ts/internal/adapters"
	"go2ts/internal/analyze"
	"go2ts/internal/diagnostic"
	"go2ts/internal/gen"
	"go2ts/internal/mapping"
)

// runOutcome is what one transpilation leaves behind.
type runOutcome struct {
	result *gen.Result
	// dirs holds the directories of the loaded Go files.
	dirs []string
}

// transpile loads the packages, validates the rules against them and
// generates TypeScript for every file.
func transpile(ctx context.Context, s Settings, patterns []string, logger *zap.Logger) (*runOutcome, error) {
	rf, err := loadRules(s.Rules)
	if err != nil {
		return nil, err
	}

	analyzer := analyze.NewAnalyzer()
	analyzer.Dir = s.Dir

	units, err := analyzer.LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	logger.Debug("packages loaded",
		zap.Strings("patterns", patterns),
		zap.Int("units", len(units)),
	)

	if rf != nil {
		mapping.Resolve(rf, analyzer.Index())

		diags := mapping.Validate(rf, mapping.Known{
			Adapters: adapters.Names(),
			Root:     adapters.RootName,
			Index:    analyzer.Index(),
		})
		for _, w := range diags.Warnings {
			logger.Warn("rule file", zap.String("problem", w.String()))
		}

		if err := diags.Error(); err != nil {
			return nil, errors.WithHint(errors.Wrap(err, "invalid rules"), "run `go2ts check` for details")
		}
	}

	res, err := gen.NewGenerator(generatorConfig(s, rf), gen.WithLogger(logger)).Generate(ctx, units)
	if err != nil {
		return nil, err
	}

	return &runOutcome{result: res, dirs: unitDirs(units)}, nil
}

func unitDirs(units []*analyze.Unit) []string {
	var dirs []string

	for _, u := range units {
		dir := filepath.Dir(u.Path)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	slices.Sort(dirs)

	return dirs
}

// emit writes the result to s.Output, or to w when no directory is set.
func emit(w io.Writer, s Settings, res *gen.Result) error {
	if s.Output != "" {
		return gen.WriteFiles(res.Files, s.Output)
	}

	for _, f := range res.Files {
		if _, err := fmt.Fprintf(w, "// ==> %s\n%s\n", f.Filename, f.Content); err != nil {
			return err
		}
	}

	return nil
}

// printDiagnostics lists problems worst first.
func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	for _, diag := range d.All() {
		fmt.Fprintf(w, "%s: %s\n", diag.Severity, diag)
	}
}

// problemsError fails a run that reported errors.
func problemsError(d *diagnostic.Diagnostics) error {
	if d.IsValid() {
		return nil
	}

	return errors.Newf("%d error(s) reported", len(d.Errors))
}
