package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// ModuleRelative returns pkgPath relative to fromPath as a TypeScript module
// specifier ("./geom", "../shapes/geom").
func ModuleRelative(fromPath, pkgPath string) string {
	from := strings.Split(fromPath, "/")
	to := strings.Split(pkgPath, "/")

	i := 0
	for i < len(from) && i < len(to) && from[i] == to[i] {
		i++
	}

	ups := len(from) - i
	rest := strings.Join(to[i:], "/")

	if ups == 0 {
		return "./" + rest
	}

	return strings.Repeat("../", ups) + rest
}
