package adapter

import (
	"go/ast"
	"go/types"
)

// Embeds classifies the embedded fields of a struct declaration.
type Embeds struct {
	// Super is the embedded struct printed as the extends clause.
	Super *types.Var
	// Fields are embedded fields printed as ordinary fields named after
	// their type.
	Fields []*types.Var
	// Erased are embedded fields the chain dropped.
	Erased []*types.Var
}

// IsSuper reports whether field is the extended embed.
func (e Embeds) IsSuper(field *types.Var) bool {
	return e.Super != nil && e.Super == field
}

// ClassifyEmbeds asks a which embedded fields of st to erase. The first kept
// embedded struct becomes the superclass; embedded interfaces and further
// structs stay fields. decl may be nil when the declaration is not in the
// current unit.
func ClassifyEmbeds(a Adapter, decl *ast.TypeSpec, st *types.Struct) Embeds {
	var e Embeds

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}

		named := EmbeddedNamed(f)
		if named == nil {
			e.Fields = append(e.Fields, f)
			continue
		}

		if _, isIface := named.Underlying().(*types.Interface); isIface {
			if a.EraseSuperInterface(decl, named) {
				e.Erased = append(e.Erased, f)
			} else {
				e.Fields = append(e.Fields, f)
			}

			continue
		}

		if a.EraseSuperClass(decl, named) {
			e.Erased = append(e.Erased, f)
			continue
		}

		if e.Super == nil {
			if _, isStruct := named.Underlying().(*types.Struct); isStruct {
				e.Super = f
				continue
			}
		}

		e.Fields = append(e.Fields, f)
	}

	return e
}

// EmbeddedNamed returns the named type of an embedded field, pointers
// dereferenced.
func EmbeddedNamed(f *types.Var) *types.Named {
	t := types.Unalias(f.Type())
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}

	named, _ := t.(*types.Named)

	return named
}
