package adapter

import (
	"go/ast"
	"go/types"
	"maps"
	"slices"

	"github.com/cockroachdb/errors"

	"go2ts/internal/analyze"
	"go2ts/internal/filter"
)

// FunctionalTypeMapping maps a type reference to a target type name. It
// returns false when it does not apply.
type FunctionalTypeMapping func(expr ast.Expr, typeName string) (string, bool)

// Context is the registry shared by every layer of one run: type mappings,
// annotation rules and erased type variables. It is not safe for concurrent
// use and must not outlive its run.
type Context struct {
	typeMappings        map[string]string
	functionalMappings  []FunctionalTypeMapping
	annotationRules     []AnnotationRule
	annotationProviders []AnnotationProvider
	erasedTypeVariables map[*types.TypeName]struct{}
}

// NewContext creates an empty context for one run.
func NewContext() *Context {
	return &Context{
		typeMappings:        make(map[string]string),
		erasedTypeVariables: make(map[*types.TypeName]struct{}),
	}
}

// AddTypeMapping substitutes sourceTypeName (fully qualified, e.g.
// "time.Time") with targetTypeName wherever the type is printed. A later
// registration for the same source replaces the earlier one.
func (c *Context) AddTypeMapping(sourceTypeName, targetTypeName string) {
	c.typeMappings[sourceTypeName] = targetTypeName
}

// AddTypeMappings registers every entry of nameMappings.
func (c *Context) AddTypeMappings(nameMappings map[string]string) {
	maps.Copy(c.typeMappings, nameMappings)
}

// IsMappedType reports whether sourceTypeName has a name-based mapping.
func (c *Context) IsMappedType(sourceTypeName string) bool {
	_, ok := c.typeMappings[sourceTypeName]
	return ok
}

// TypeMappingTarget returns the target of a name-based mapping, or "".
func (c *Context) TypeMappingTarget(sourceTypeName string) string {
	return c.typeMappings[sourceTypeName]
}

// TypeMappings returns a copy of the name-based mappings.
func (c *Context) TypeMappings() map[string]string {
	return maps.Clone(c.typeMappings)
}

// AddFunctionalTypeMapping appends a mapping function. Functions are
// consulted in registration order when no name-based mapping applies.
func (c *Context) AddFunctionalTypeMapping(fn FunctionalTypeMapping) {
	c.functionalMappings = append(c.functionalMappings, fn)
}

// FunctionalTypeMappings returns the registered mapping functions in order.
func (c *Context) FunctionalTypeMappings() []FunctionalTypeMapping {
	return slices.Clone(c.functionalMappings)
}

// MapType resolves the target name for a type reference: the name-based
// mapping first, then the first functional mapping that applies.
func (c *Context) MapType(expr ast.Expr, t types.Type) (string, bool) {
	name := analyze.QualifiedName(t)

	if target, ok := c.typeMappings[name]; ok {
		return target, true
	}

	for _, fn := range c.functionalMappings {
		if target, ok := fn(expr, name); ok {
			return target, true
		}
	}

	return "", false
}

// AddAnnotation activates an annotation on every declaration selected by
// filters. The descriptor is an annotation name, optionally prefixed with
// '@' and optionally followed by a quoted value: "@Erased", "@Name('area')".
// Rules added later take precedence over earlier ones.
func (c *Context) AddAnnotation(descriptor string, filters ...string) error {
	ann, err := ParseAnnotation(descriptor)
	if err != nil {
		return err
	}

	if len(filters) == 0 {
		return errors.WithHint(
			errors.Newf("annotation %s has no filters", descriptor),
			"pass at least one filter such as \"*.MyType\"",
		)
	}

	c.annotationRules = append(c.annotationRules, AnnotationRule{
		Descriptor: descriptor,
		Annotation: ann,
		Filters:    slices.Clone(filters),
	})

	return nil
}

// AddAnnotationWithValue is AddAnnotation for a name and a value.
func (c *Context) AddAnnotationWithValue(name string, value any, filters ...string) error {
	return c.AddAnnotation(FormatAnnotation(name, value), filters...)
}

// AnnotationRules returns the registered rules in registration order.
func (c *Context) AnnotationRules() []AnnotationRule {
	return slices.Clone(c.annotationRules)
}

// AddAnnotationProvider appends a provider. Providers added later take
// precedence over earlier ones and over filter rules.
func (c *Context) AddAnnotationProvider(p AnnotationProvider) {
	c.annotationProviders = append(c.annotationProviders, p)
}

// Annotation returns the annotation called name active on obj. Providers
// are consulted newest first; then rules, newest first. The first match
// decides.
func (c *Context) Annotation(obj types.Object, name string) (Annotation, bool) {
	if obj == nil {
		return Annotation{}, false
	}

	for _, p := range slices.Backward(c.annotationProviders) {
		switch p.AnnotationState(obj, name) {
		case AnnotationAdded:
			value, hasValue := p.AnnotationValue(obj, name)
			return Annotation{Name: name, Value: value, HasValue: hasValue}, true
		case AnnotationRemoved:
			return Annotation{}, false
		}
	}

	var signature string
	for _, rule := range slices.Backward(c.annotationRules) {
		if !rule.Annotation.Is(name) {
			continue
		}

		if signature == "" {
			signature = filter.Signature(obj)
		}

		if filter.Match(rule.Filters, signature) {
			return rule.Annotation, true
		}
	}

	return Annotation{}, false
}

// HasAnnotation reports whether the annotation called name is active on obj.
func (c *Context) HasAnnotation(obj types.Object, name string) bool {
	_, ok := c.Annotation(obj, name)
	return ok
}

// AnnotationValue returns the value of the annotation called name on obj.
func (c *Context) AnnotationValue(obj types.Object, name string) (string, bool) {
	ann, ok := c.Annotation(obj, name)
	if !ok || !ann.HasValue {
		return "", false
	}

	return ann.Value, true
}

// EraseTypeVariable marks a type parameter as erased (printed as any) for
// the rest of the run.
func (c *Context) EraseTypeVariable(tp *types.TypeParam) {
	c.erasedTypeVariables[tp.Obj()] = struct{}{}
}

// IsErasedTypeVariable reports whether tp was erased with EraseTypeVariable.
func (c *Context) IsErasedTypeVariable(tp *types.TypeParam) bool {
	_, ok := c.erasedTypeVariables[tp.Obj()]
	return ok
}
