package mapping

import (
	"strings"

	"go2ts/internal/analyze"
)

// ResolveTypeName resolves a configured type name against index:
//   - "example.com/geom.Point" (full) resolves to itself;
//   - "geom.Point" (short) resolves when exactly one loaded package path
//     ends with "/geom" or equals "geom";
//   - names without a package ("int", "error") resolve to themselves.
//
// The second result is false when the name is qualified but no loaded
// package declares it.
func ResolveTypeName(name string, index *analyze.TypeIndex) (string, bool) {
	pkgPath, typeName := splitQualified(name)
	if pkgPath == "" || index == nil {
		return name, true
	}

	if index.GetType(analyze.TypeID{PkgPath: pkgPath, Name: typeName}) != nil {
		return name, true
	}

	var found []analyze.TypeID

	for id := range index.Types {
		if id.Name != typeName {
			continue
		}

		if id.PkgPath == pkgPath || strings.HasSuffix(id.PkgPath, "/"+pkgPath) {
			found = append(found, id)
		}
	}

	if len(found) == 1 {
		return found[0].String(), true
	}

	return name, false
}

// IsLoaded reports whether the package part of a qualified name belongs to
// a package of index.
func IsLoaded(name string, index *analyze.TypeIndex) bool {
	pkgPath, _ := splitQualified(name)
	if pkgPath == "" || index == nil {
		return false
	}

	for path := range index.Packages {
		if path == pkgPath || strings.HasSuffix(path, "/"+pkgPath) {
			return true
		}
	}

	return false
}

// Resolve rewrites the short type names of rf to their qualified form.
// Names that do not resolve are kept as written.
func Resolve(rf *RuleFile, index *analyze.TypeIndex) {
	if rf == nil || index == nil {
		return
	}

	resolved := make(map[string]string, len(rf.TypeMappings))
	for source, target := range rf.TypeMappings {
		full, _ := ResolveTypeName(source, index)
		resolved[full] = target
	}

	rf.TypeMappings = resolved

	for i, name := range rf.ErasedTypes {
		rf.ErasedTypes[i], _ = ResolveTypeName(name, index)
	}
}
