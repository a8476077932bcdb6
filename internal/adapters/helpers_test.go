package adapters_test

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	"go2ts/internal/adapter"
	"go2ts/internal/adapters"
	"go2ts/internal/analyze"
	"go2ts/internal/printer"
)

func checkApp(t *testing.T, src string, deps ...*analyze.Checked) *analyze.Unit {
	t.Helper()

	checked := checkPackage(t, "example.com/app", src, deps...)
	require.Len(t, checked.Units, 1)

	return checked.Units[0]
}

func checkPackage(t *testing.T, path, src string, deps ...*analyze.Checked) *analyze.Checked {
	t.Helper()

	var pkgs []*types.Package
	for _, d := range deps {
		pkgs = append(pkgs, d.Pkg)
	}

	checked, err := analyze.CheckSource(analyze.Source{
		Path:  path,
		Files: map[string]string{"file.go": src},
	}, pkgs...)
	require.NoError(t, err)

	return checked
}

// render prints unit through a chain built from names.
func render(t *testing.T, ctx *adapter.Context, unit *analyze.Unit, names []string, opts ...adapters.Option) printer.Output {
	t.Helper()

	chain, err := adapters.Build(ctx, names, opts...)
	require.NoError(t, err)

	p, err := printer.New(chain, unit, printer.DefaultConfig())
	require.NoError(t, err)

	return p.PrintUnit()
}

func diagnosticCodes(out printer.Output) []string {
	var codes []string
	for _, d := range out.Diagnostics.All() {
		codes = append(codes, d.Code)
	}

	return codes
}
