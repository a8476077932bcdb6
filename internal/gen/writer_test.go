package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	files := []GeneratedFile{
		{Filename: "example.com/geom/point.ts", Content: []byte("export class Point {}\n")},
		{Filename: "example.com/geom/index.ts", Content: []byte("export * from \"./point\";\n")},
	}

	require.NoError(t, WriteFiles(files, dir))

	got, err := os.ReadFile(filepath.Join(dir, "example.com", "geom", "point.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export class Point {}\n", string(got))

	stale, err := StaleFiles(files, dir)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestStaleFiles(t *testing.T) {
	dir := t.TempDir()
	written := []GeneratedFile{
		{Filename: "p/a.ts", Content: []byte("a")},
		{Filename: "p/b.ts", Content: []byte("b")},
	}
	require.NoError(t, WriteFiles(written, dir))

	current := []GeneratedFile{
		{Filename: "p/a.ts", Content: []byte("a")},
		{Filename: "p/b.ts", Content: []byte("b2")},
		{Filename: "p/c.ts", Content: []byte("c")},
	}

	stale, err := StaleFiles(current, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"p/b.ts", "p/c.ts"}, stale)
}

func TestWriteFiles_BlockedDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p"), []byte("not a directory"), 0o644))

	err := WriteFiles([]GeneratedFile{{Filename: "p/a.ts", Content: []byte("a")}}, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p/a.ts")
}
