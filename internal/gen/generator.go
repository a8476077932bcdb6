package gen

import (
	"context"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go2ts/internal/adapter"
	"go2ts/internal/adapters"
	"go2ts/internal/analyze"
	"go2ts/internal/diagnostic"
	"go2ts/internal/mapping"
	"go2ts/internal/printer"
)

// Config holds configuration for a transpilation run.
type Config struct {
	// Adapters lists the layers stacked over the root, innermost first.
	Adapters []string
	// Rules feeds the rules layer; nil leaves it empty.
	Rules *mapping.RuleFile
	// Printer configures every printer of the run.
	Printer printer.Config
	// Workers bounds the number of units printed at once (<= 0 means
	// GOMAXPROCS).
	Workers int
	// Header enables the "Code generated" banner on every file.
	Header bool
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		Adapters: []string{"stdlib", "embedding", "docs"},
		Printer:  printer.DefaultConfig(),
		Header:   true,
	}
}

// GeneratedFile represents a generated TypeScript file.
type GeneratedFile struct {
	// Filename is the slash-separated path relative to the output directory
	// (e.g., "go2ts/examples/geom/point.ts").
	Filename string
	// Content is the TypeScript source.
	Content []byte
}

// Result is the outcome of Generate.
type Result struct {
	// Files holds the unit files followed by the package index files, in
	// filename order within each group.
	Files []GeneratedFile
	// Diagnostics collects the problems of every unit.
	Diagnostics diagnostic.Diagnostics
}

// Generator transpiles units through adapter chains.
type Generator struct {
	config Config
	logger *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config Config, opts ...Option) *Generator {
	g := &Generator{config: config, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// unitResult is what one run produces.
type unitResult struct {
	file     GeneratedFile
	siblings []string
	diags    diagnostic.Diagnostics
}

// Generate prints every unit and assembles the package index files.
// A configuration error in any run stops the whole generation; reported
// problems do not.
func (g *Generator) Generate(ctx context.Context, units []*analyze.Unit) (*Result, error) {
	results := make([]unitResult, len(units))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())

	for i, unit := range units {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			res, err := g.run(unit)
			if err != nil {
				return errors.Wrapf(err, "transpiling %s", unit.Path)
			}

			results[i] = res

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return g.assemble(results)
}

func (g *Generator) workers() int {
	if g.config.Workers > 0 {
		return g.config.Workers
	}

	return runtime.GOMAXPROCS(0)
}

// run performs one run: a fresh Context, a chain over it and a printer
// bound to the chain.
func (g *Generator) run(unit *analyze.Unit) (unitResult, error) {
	chain, err := adapters.Build(adapter.NewContext(), g.config.Adapters,
		adapters.WithRules(g.config.Rules),
		adapters.WithLogger(g.logger),
	)
	if err != nil {
		return unitResult{}, err
	}

	p, err := printer.New(chain, unit, g.config.Printer)
	if err != nil {
		return unitResult{}, err
	}

	out := p.PrintUnit()

	name := outputName(unit)

	content := out.Source
	if g.config.Header {
		content = renderHeader(headerData{Source: sourceName(unit), Adapters: g.config.Adapters}) + content
	}

	g.logger.Debug("unit printed",
		zap.String("unit", unit.Path),
		zap.String("output", name),
		zap.Int("problems", out.Diagnostics.Len()),
	)

	return unitResult{
		file:     GeneratedFile{Filename: name, Content: []byte(content)},
		siblings: out.Siblings,
		diags:    out.Diagnostics,
	}, nil
}

// assemble orders the unit files and adds one index file per package.
func (g *Generator) assemble(results []unitResult) (*Result, error) {
	res := &Result{}

	byPkg := make(map[string][]unitResult)
	for _, r := range results {
		res.Files = append(res.Files, r.file)
		res.Diagnostics.Merge(r.diags)

		dir := path.Dir(r.file.Filename)
		byPkg[dir] = append(byPkg[dir], r)
	}

	sort.Slice(res.Files, func(i, j int) bool {
		return res.Files[i].Filename < res.Files[j].Filename
	})

	dirs := make([]string, 0, len(byPkg))
	for dir := range byPkg {
		dirs = append(dirs, dir)
	}

	sort.Strings(dirs)

	for _, dir := range dirs {
		modules, err := exportOrder(byPkg[dir])
		if err != nil {
			g.logger.Warn("package files import each other in a cycle",
				zap.String("package", dir),
				zap.Error(err),
			)
		}

		content := renderIndex(indexData{Header: g.config.Header, Modules: modules})
		res.Files = append(res.Files, GeneratedFile{
			Filename: path.Join(dir, indexName),
			Content:  []byte(content),
		})
	}

	g.logger.Info("generation finished",
		zap.Int("units", len(results)),
		zap.Int("packages", len(dirs)),
		zap.Int("errors", len(res.Diagnostics.Errors)),
		zap.Int("warnings", len(res.Diagnostics.Warnings)),
	)

	return res, nil
}

// exportOrder returns the module specifiers of a package's files, each
// after the siblings it imports from. On a cycle the specifiers are
// returned in name order along with the error.
func exportOrder(files []unitResult) ([]string, error) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].file.Filename < files[j].file.Filename
	})

	modules := make([]string, len(files))
	index := make(map[string]int, len(files))

	for i, f := range files {
		modules[i] = moduleOf(f.file.Filename)
		index[modules[i]] = i
	}

	order, err := topoSort(len(files), func(i int) []int {
		var deps []int

		for _, s := range files[i].siblings {
			if j, ok := index[s]; ok && j != i {
				deps = append(deps, j)
			}
		}

		return deps
	})
	var cycle *importCycleError
	if errors.As(err, &cycle) {
		stuck := make([]string, len(cycle.files))
		for k, i := range cycle.files {
			stuck[k] = modules[i]
		}

		return modules, errors.Newf("files import each other in a cycle: %s", strings.Join(stuck, ", "))
	}

	if err != nil {
		return modules, err
	}

	ordered := make([]string, len(order))
	for k, i := range order {
		ordered[k] = modules[i]
	}

	return ordered, nil
}

// outputName maps a unit to its output file: the package path followed by
// the file's base name with a .ts extension.
func outputName(unit *analyze.Unit) string {
	base := filepath.Base(unit.Path)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".ts"

	if unit.Pkg == nil {
		return base
	}

	return path.Join(unit.Pkg.Path(), base)
}

// moduleOf returns the relative module specifier of a generated file.
func moduleOf(filename string) string {
	return "./" + strings.TrimSuffix(path.Base(filename), ".ts")
}

func sourceName(unit *analyze.Unit) string {
	if unit.Pkg == nil {
		return filepath.Base(unit.Path)
	}

	return path.Join(unit.Pkg.Path(), filepath.Base(unit.Path))
}
