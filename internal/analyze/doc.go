// Package analyze provides package loading and the semantic model consulted
// while a compilation unit is printed.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to load
// packages from disk, or go/parser + go/types directly to check in-memory
// sources (see CheckSource).
//
// Key types:
//   - TypeID: package import path + type name, the key used by type mappings
//   - Unit: one parsed file with its type information and static imports
//   - TypeIndex: every named type seen by a load, used for config validation
//
// Static imports are Go dot imports: `import . "pkg"` makes every exported
// member of pkg reachable by its unqualified name. Each Unit records them by
// simple name so that unqualified calls can be traced back to the declaring
// package.
package analyze
