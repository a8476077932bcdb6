package adapter

import (
	"go/types"
)

// Flags is the scratch state of one layer. It changes while nested types are
// printed and is never shared through the Context. Every setter returns a
// function restoring the previous state; call it with defer so the state is
// restored on every exit path.
//
//	defer flags.DisableTypeSubstitution(true)()
type Flags struct {
	inTypeParameters        bool
	disableTypeSubstitution bool
	typeVariablesToErase    map[*types.TypeName]struct{}
}

// InTypeParameters reports whether type arguments or parameters are being
// printed.
func (f *Flags) InTypeParameters() bool {
	return f.inTypeParameters
}

// SetInTypeParameters sets the type-parameter position flag.
func (f *Flags) SetInTypeParameters(v bool) (restore func()) {
	prev := f.inTypeParameters
	f.inTypeParameters = v

	return func() { f.inTypeParameters = prev }
}

// TypeSubstitutionDisabled reports whether type mappings are ignored.
func (f *Flags) TypeSubstitutionDisabled() bool {
	return f.disableTypeSubstitution
}

// DisableTypeSubstitution sets the substitution-disabled flag.
func (f *Flags) DisableTypeSubstitution(v bool) (restore func()) {
	prev := f.disableTypeSubstitution
	f.disableTypeSubstitution = v

	return func() { f.disableTypeSubstitution = prev }
}

// EraseTypeVariables adds type parameters to the set printed as any.
func (f *Flags) EraseTypeVariables(params ...*types.TypeParam) (restore func()) {
	prev := f.typeVariablesToErase

	next := make(map[*types.TypeName]struct{}, len(prev)+len(params))
	for k := range prev {
		next[k] = struct{}{}
	}

	for _, tp := range params {
		next[tp.Obj()] = struct{}{}
	}

	f.typeVariablesToErase = next

	return func() { f.typeVariablesToErase = prev }
}

// IsTypeVariableErased reports whether tp is in the local erasure set.
func (f *Flags) IsTypeVariableErased(tp *types.TypeParam) bool {
	_, ok := f.typeVariablesToErase[tp.Obj()]
	return ok
}
