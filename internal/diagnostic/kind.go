package diagnostic

import (
	"fmt"
)

// Kind identifies a class of problem.
type Kind int

const (
	// KindUnsupportedNode is reported when the printer meets syntax it
	// cannot lower. Params: node description.
	KindUnsupportedNode Kind = iota
	// KindUnsupportedType is reported for types with no target equivalent.
	// Params: type string.
	KindUnsupportedType
	// KindInvalidAnnotation is reported for malformed annotation descriptors.
	// Params: descriptor, reason.
	KindInvalidAnnotation
	// KindUnknownMappedType is reported when a configured type mapping names
	// a type no loaded package declares. Params: type name.
	KindUnknownMappedType
	// KindErasedDeclaration notes a declaration skipped because of an
	// Erased annotation. Params: declaration name.
	KindErasedDeclaration
	// KindUserWarning is a free-form warning raised by an adapter.
	// Params: message.
	KindUserWarning
	// KindUserError is a free-form error raised by an adapter.
	// Params: message.
	KindUserError
)

var kindSpecs = map[Kind]struct {
	code     string
	severity DiagnosticSeverity
	format   string
}{
	KindUnsupportedNode:   {"G2T001", DiagnosticError, "unsupported syntax: %s"},
	KindUnsupportedType:   {"G2T002", DiagnosticWarning, "type %s has no TypeScript equivalent, printed as any"},
	KindInvalidAnnotation: {"G2T003", DiagnosticError, "invalid annotation %q: %s"},
	KindUnknownMappedType: {"G2T004", DiagnosticWarning, "mapped type %s is not declared by any loaded package"},
	KindErasedDeclaration: {"G2T005", DiagnosticInfo, "declaration %s erased"},
	KindUserWarning:       {"G2T100", DiagnosticWarning, "%s"},
	KindUserError:         {"G2T101", DiagnosticError, "%s"},
}

// Code returns the stable identifier of the kind.
func (k Kind) Code() string {
	if spec, ok := kindSpecs[k]; ok {
		return spec.code
	}

	return "G2T000"
}

// Severity returns the default severity of the kind.
func (k Kind) Severity() DiagnosticSeverity {
	if spec, ok := kindSpecs[k]; ok {
		return spec.severity
	}

	return DiagnosticError
}

// Message formats the kind's message with params.
func (k Kind) Message(params ...any) string {
	spec, ok := kindSpecs[k]
	if !ok {
		return fmt.Sprint(params...)
	}

	return fmt.Sprintf(spec.format, params...)
}
