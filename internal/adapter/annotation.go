package adapter

import (
	"fmt"
	"go/types"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// Built-in annotation names understood by the printer.
const (
	// AnnotationErased removes a declaration from the output.
	AnnotationErased = "Erased"
	// AnnotationName renames a declaration: @Name('newName').
	AnnotationName = "Name"
)

// Annotation is an annotation injected on a declaration.
type Annotation struct {
	Name     string
	Value    string
	HasValue bool
}

// Is reports whether the annotation is called name. Package qualifiers on
// either side are ignored.
func (a Annotation) Is(name string) bool {
	return simpleName(a.Name) == simpleName(name)
}

// String renders the annotation back into descriptor form.
func (a Annotation) String() string {
	if a.HasValue {
		return FormatAnnotation(a.Name, a.Value)
	}

	return "@" + a.Name
}

var descriptorPattern = regexp.MustCompile(`^@?([A-Za-z_][\w.]*)\s*(?:\(\s*(?:'([^']*)'|"([^"]*)"|([^'")]*?))\s*\))?$`)

// ParseAnnotation parses a descriptor such as "@Erased" or "@Name('area')".
func ParseAnnotation(descriptor string) (Annotation, error) {
	m := descriptorPattern.FindStringSubmatch(strings.TrimSpace(descriptor))
	if m == nil {
		return Annotation{}, errors.WithHint(
			errors.Newf("invalid annotation descriptor %q", descriptor),
			"use the form @Name or @Name('value')",
		)
	}

	ann := Annotation{Name: m[1]}

	if !strings.Contains(descriptor, "(") {
		return ann, nil
	}

	ann.HasValue = true
	for _, v := range m[2:] {
		if v != "" {
			ann.Value = v
			break
		}
	}

	return ann, nil
}

// FormatAnnotation builds a descriptor carrying value.
func FormatAnnotation(name string, value any) string {
	return fmt.Sprintf("@%s('%v')", strings.TrimPrefix(name, "@"), value)
}

// AnnotationRule activates an annotation on the declarations its filters
// select.
type AnnotationRule struct {
	Descriptor string
	Annotation Annotation
	Filters    []string
}

// AnnotationState is a provider's verdict on an annotation.
type AnnotationState int

const (
	// AnnotationUnchanged lets older providers and rules decide.
	AnnotationUnchanged AnnotationState = iota
	// AnnotationAdded activates the annotation.
	AnnotationAdded
	// AnnotationRemoved deactivates the annotation, even if a rule selects it.
	AnnotationRemoved
)

// AnnotationProvider tunes annotations programmatically.
type AnnotationProvider interface {
	// AnnotationState tells whether the annotation called name is added to,
	// removed from, or left unchanged on obj.
	AnnotationState(obj types.Object, name string) AnnotationState
	// AnnotationValue returns the value of an added annotation.
	AnnotationValue(obj types.Object, name string) (string, bool)
}

// AnnotationProviderFunc adapts a state function to an AnnotationProvider
// whose added annotations carry no value.
type AnnotationProviderFunc func(obj types.Object, name string) AnnotationState

// AnnotationState implements AnnotationProvider.
func (f AnnotationProviderFunc) AnnotationState(obj types.Object, name string) AnnotationState {
	return f(obj, name)
}

// AnnotationValue implements AnnotationProvider.
func (f AnnotationProviderFunc) AnnotationValue(types.Object, string) (string, bool) {
	return "", false
}

func simpleName(name string) string {
	name = strings.TrimPrefix(name, "@")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}

	return name
}
