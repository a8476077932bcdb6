package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go2ts/internal/mapping"
)

// execute runs the command tree with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func writeRules(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestAdaptersCmd(t *testing.T) {
	out, err := execute(t, "adapters")
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 5)
	assert.Contains(t, string(lines[0]), "typescript")
	assert.Contains(t, string(lines[0]), "(root, always present)")

	for _, name := range []string{"docs", "embedding", "rules", "stdlib"} {
		assert.Contains(t, out, name)
	}
}

func TestCheckCmd(t *testing.T) {
	t.Run("valid yaml", func(t *testing.T) {
		path := writeRules(t, "rules.yaml", "version: \"1\"\nadapters: [stdlib, docs]\ntypeMappings:\n  example.com/geom.Point: Vec2\n")

		out, err := execute(t, "check", "-r", path)
		require.NoError(t, err)
		assert.Contains(t, out, "✓ 1 rule file(s) valid")
	})

	t.Run("valid toml", func(t *testing.T) {
		path := writeRules(t, "rules.toml", "version = \"1\"\nadapters = [\"embedding\"]\n")

		out, err := execute(t, "check", "-r", path)
		require.NoError(t, err)
		assert.Contains(t, out, "valid")
	})

	t.Run("unknown adapter", func(t *testing.T) {
		path := writeRules(t, "rules.yaml", "version: \"1\"\nadapters: [stdlb]\n")

		out, err := execute(t, "check", "-r", path)
		require.Error(t, err)
		assert.Contains(t, out, `unknown adapter "stdlb"`)
		assert.Contains(t, out, "did you mean stdlib")
	})

	t.Run("no rule files", func(t *testing.T) {
		_, err := execute(t, "check")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no rule files given")
		assert.Contains(t, errors.FlattenHints(err), "--rules")
	})

	t.Run("dump", func(t *testing.T) {
		path := writeRules(t, "rules.yaml", "version: \"1\"\ntypeMappings:\n  example.com/geom.Point: Vec2\n")

		out, err := execute(t, "check", "-r", path, "--dump")
		require.NoError(t, err)
		assert.Contains(t, out, "typeMappings")
		assert.Contains(t, out, `"example.com/geom.Point": (string) (len=4) "Vec2"`)
	})
}

func TestTranspileCmd(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}

	outDir := t.TempDir()
	rules := filepath.Join("..", "..", "..", "examples", "store", "go2ts.yaml")
	moduleRoot := filepath.Join("..", "..", "..")

	_, err := execute(t, "transpile", "-o", outDir, "-r", rules, "--dir", moduleRoot, "./examples/store")
	require.NoError(t, err)

	pkgDir := filepath.Join(outDir, "go2ts", "examples", "store")
	for _, name := range []string{"index.ts", "orders.ts", "types.ts"} {
		assert.FileExists(t, filepath.Join(pkgDir, name))
	}

	types, err := os.ReadFile(filepath.Join(pkgDir, "types.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(types), "// adapters: stdlib, embedding, docs, rules")
	assert.Contains(t, string(types), "Status: string")
	assert.Contains(t, string(types), "CreatedAt: Date")

	orders, err := os.ReadFile(filepath.Join(pkgDir, "orders.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(orders), "export function checkout(")
	assert.Contains(t, string(orders), "@deprecated")
	assert.Contains(t, string(orders), `declare module "./types" {`)
	assert.Contains(t, string(orders), "Catalog.prototype.Add = function (this: Catalog, p: Product): void {")
	assert.Contains(t, string(orders), "c.Add(p);")
	assert.Contains(t, string(orders), "= c.Lookup(sku);")
	assert.NotContains(t, string(orders), "Catalog$")

	out, err := execute(t, "transpile", "--check", "-o", outDir, "-r", rules, "--dir", moduleRoot, "./examples/store")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	require.NoError(t, os.Remove(filepath.Join(pkgDir, "index.ts")))

	out, err = execute(t, "transpile", "--check", "-o", outDir, "-r", rules, "--dir", moduleRoot, "./examples/store")
	require.Error(t, err)
	assert.Contains(t, out, "go2ts/examples/store/index.ts")
}

func TestTranspileCmd_CheckNeedsOutput(t *testing.T) {
	err := checkUpToDate(newTranspileCmd(), Settings{}, nil)
	require.Error(t, err)
}

func TestLoadSettings_Env(t *testing.T) {
	t.Setenv("GO2TS_ADAPTERS", "stdlib,docs")
	t.Setenv("GO2TS_OUTPUT", "web/gen")
	t.Setenv("GO2TS_NO_HEADER", "true")

	cmd := newTranspileCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--workers", "3"}))

	s, err := loadSettings(cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"stdlib", "docs"}, s.Adapters)
	assert.Equal(t, "web/gen", s.Output)
	assert.True(t, s.NoHeader)
	assert.Equal(t, 3, s.Workers)
}

func TestChainNames(t *testing.T) {
	rf := &mapping.RuleFile{Adapters: mapping.StringOrArray{"docs"}}

	tests := []struct {
		name string
		s    Settings
		rf   *mapping.RuleFile
		want []string
	}{
		{name: "default", want: []string{"stdlib", "embedding", "docs"}},
		{name: "flags win", s: Settings{Adapters: []string{"embedding"}}, rf: rf, want: []string{"embedding", "rules"}},
		{name: "rule file", rf: rf, want: []string{"docs", "rules"}},
		{name: "rules listed once", rf: &mapping.RuleFile{Adapters: mapping.StringOrArray{"rules", "docs"}}, want: []string{"rules", "docs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chainNames(tt.s, tt.rf))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " c ", ""}))
	assert.Nil(t, splitList(nil))
}

func TestLoadRules_Merges(t *testing.T) {
	first := writeRules(t, "a.yaml", "version: \"1\"\ntypeMappings:\n  a.A: X\n")
	second := writeRules(t, "b.toml", "version = \"1\"\n[typeMappings]\n\"a.A\" = \"Y\"\n\"b.B\" = \"Z\"\n")

	rf, err := loadRules([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.A": "Y", "b.B": "Z"}, rf.TypeMappings)

	none, err := loadRules(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSourceWatcher(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "go2ts.yaml")

	var runs atomic.Int32

	w, err := newSourceWatcher([]string{dir}, []string{rules}, 20*time.Millisecond, zap.NewNop(), func() {
		runs.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "point.go"), []byte("package geom\n"), 0o644))

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	before := runs.Load()
	require.NoError(t, os.WriteFile(rules, []byte("version: \"1\"\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() > before }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestSourceWatcher_RulesSavedByRename(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "go2ts.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("version: \"1\"\n"), 0o644))

	var runs atomic.Int32

	w, err := newSourceWatcher(nil, []string{rules}, 20*time.Millisecond, zap.NewNop(), func() {
		runs.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- w.Run(ctx) }()

	save := func(content string) {
		tmp := filepath.Join(dir, ".go2ts.yaml.swp")
		require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
		require.NoError(t, os.Rename(tmp, rules))
	}

	save("version: \"1\"\nadapters: [docs]\n")
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	before := runs.Load()
	save("version: \"1\"\nadapters: [stdlib]\n")
	require.Eventually(t, func() bool { return runs.Load() > before }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestSourceWatcher_MissingPath(t *testing.T) {
	_, err := newSourceWatcher([]string{filepath.Join(t.TempDir(), "missing")}, nil, time.Millisecond, zap.NewNop(), func() {})
	require.Error(t, err)
}
