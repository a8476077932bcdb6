package mapping

import (
	"strings"

	"go2ts/internal/common"
)

// CurrentVersion is the schema version written by this package.
const CurrentVersion = "1"

// RuleFile is the root of an adapter rule file.
type RuleFile struct {
	// Version of the schema.
	Version string `yaml:"version,omitempty"`

	// Adapters lists the built-in layers to stack over the root, innermost
	// first.
	Adapters StringOrArray `yaml:"adapters,omitempty"`

	// TypeMappings maps qualified Go type names to TypeScript type names.
	TypeMappings map[string]string `yaml:"typeMappings,omitempty"`

	// Annotations activates annotations on filtered declarations.
	Annotations []AnnotationRule `yaml:"annotations,omitempty"`

	// ErasedTypes lists qualified type names printed as any.
	ErasedTypes StringOrArray `yaml:"erasedTypes,omitempty"`

	// Calls rewrites calls of specific functions and methods.
	Calls []CallRule `yaml:"calls,omitempty"`
}

// AnnotationRule activates one annotation.
type AnnotationRule struct {
	// Annotation is the annotation name, with or without '@'.
	Annotation string `yaml:"annotation"`
	// Value is the optional annotation value.
	Value string `yaml:"value,omitempty"`
	// Filters select the declarations; '*' is a wildcard, a leading '!'
	// excludes.
	Filters StringOrArray `yaml:"filters"`
}

// Descriptor renders the rule as an annotation descriptor: "@Name('x')".
func (r AnnotationRule) Descriptor() string {
	name := strings.TrimPrefix(r.Annotation, "@")
	if r.Value == "" {
		return "@" + name
	}

	return "@" + name + "('" + r.Value + "')"
}

// CallRule replaces calls of Target with the Print template.
type CallRule struct {
	// Target is the qualified callee: "strings.ToUpper" for a function,
	// "example.com/geom.Point.Scale" for a method.
	Target string `yaml:"target"`
	// Print is the replacement template.
	Print string `yaml:"print"`
}

// Owner returns the owner part of Target: the package path of a function,
// the qualified receiver type of a method.
func (c CallRule) Owner() string {
	owner, _ := splitQualified(c.Target)
	return owner
}

// Member returns the function or method name of Target.
func (c CallRule) Member() string {
	_, member := splitQualified(c.Target)
	return member
}

// StringOrArray is a list that may be written as a single string.
type StringOrArray []string

// First returns the first element or "".
func (s StringOrArray) First() string {
	first, _ := common.First(s)
	return first
}

// splitQualified splits "path/pkg.Name" at the last dot that follows the
// last slash.
func splitQualified(q string) (owner, name string) {
	slash := strings.LastIndex(q, "/")

	dot := strings.LastIndex(q[slash+1:], ".")
	if dot < 0 {
		return "", q
	}

	dot += slash + 1

	return q[:dot], q[dot+1:]
}
