package analyze

import (
	"go/types"
	"sort"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "go2ts/examples/geom"
	Name    string // e.g., "Point"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IsZero reports whether the ID is empty.
func (t TypeID) IsZero() bool {
	return t.PkgPath == "" && t.Name == ""
}

// TypeIDOf returns the identifier used to look a type up in type mappings.
// Pointers are dereferenced and aliases resolved. Named types use their
// declaring package; predeclared types use their bare name; any other type
// is identified by its full type string.
func TypeIDOf(t types.Type) TypeID {
	if t == nil {
		return TypeID{}
	}

	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}

	switch tt := t.(type) {
	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			// error, comparable
			return TypeID{Name: obj.Name()}
		}

		return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}

	case *types.Basic:
		return TypeID{Name: tt.Name()}

	case *types.TypeParam:
		return TypeID{Name: tt.Obj().Name()}

	default:
		return TypeID{Name: types.TypeString(t, nil)}
	}
}

// QualifiedName returns the mapping key for a type, i.e. TypeIDOf(t).String().
func QualifiedName(t types.Type) string {
	return TypeIDOf(t).String()
}

// TypeIndex holds every named type found by a load.
type TypeIndex struct {
	// Types maps TypeID to the declaring type name object.
	Types map[TypeID]*types.TypeName
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeIndex creates a new empty TypeIndex.
func NewTypeIndex() *TypeIndex {
	return &TypeIndex{
		Types:    make(map[TypeID]*types.TypeName),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the type name for a given TypeID, or nil if not found.
func (x *TypeIndex) GetType(id TypeID) *types.TypeName {
	return x.Types[id]
}

// Has reports whether a qualified type name is known to the index.
func (x *TypeIndex) Has(qualified string) bool {
	for id := range x.Types {
		if id.String() == qualified {
			return true
		}
	}

	return false
}

// Names returns all qualified type names in sorted order.
func (x *TypeIndex) Names() []string {
	names := make([]string, 0, len(x.Types))
	for id := range x.Types {
		names = append(names, id.String())
	}

	sort.Strings(names)

	return names
}

// AddPackage records every exported type declared at package level in pkg.
func (x *TypeIndex) AddPackage(pkg *types.Package) {
	if pkg == nil {
		return
	}

	if _, done := x.Packages[pkg.Path()]; done {
		return
	}

	info := &PackageInfo{Path: pkg.Path(), Name: pkg.Name()}

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() {
			continue
		}

		id := TypeID{PkgPath: pkg.Path(), Name: name}
		x.Types[id] = typeName
		info.Types = append(info.Types, id)
	}

	x.Packages[pkg.Path()] = info
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
