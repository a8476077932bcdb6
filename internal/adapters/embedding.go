package adapters

import (
	"go/ast"
	"go/types"

	"go2ts/internal/adapter"
	"go2ts/internal/analyze"
)

// Embedding drops embedded types declared outside the module being
// generated, unless a type mapping gives them a TypeScript name, and applies
// type mappings inside extends and implements clauses.
type Embedding struct {
	*adapter.Base
}

var _ adapter.Adapter = (*Embedding)(nil)

// NewEmbedding stacks the embedding layer on parent.
func NewEmbedding(parent adapter.Adapter) (*Embedding, error) {
	base, err := adapter.NewBase(parent)
	if err != nil {
		return nil, err
	}

	return &Embedding{Base: base}, nil
}

// EraseSuperClass implements adapter.Adapter.
func (e *Embedding) EraseSuperClass(decl *ast.TypeSpec, super *types.Named) bool {
	if e.foreign(super) {
		return true
	}

	return e.Base.EraseSuperClass(decl, super)
}

// EraseSuperInterface implements adapter.Adapter.
func (e *Embedding) EraseSuperInterface(decl *ast.TypeSpec, super *types.Named) bool {
	if e.foreign(super) {
		return true
	}

	return e.Base.EraseSuperInterface(decl, super)
}

// IsSubstituteSuperTypes implements adapter.Adapter.
func (e *Embedding) IsSubstituteSuperTypes() bool {
	return true
}

func (e *Embedding) foreign(named *types.Named) bool {
	pkg := named.Obj().Pkg()
	if pkg == nil || e.IsMappedType(analyze.QualifiedName(named)) {
		return false
	}

	return !e.Unit().InModule(pkg.Path())
}
