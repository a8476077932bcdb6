package adapter

import (
	"go/ast"
	"go/types"

	"go2ts/internal/analyze"
	"go2ts/internal/diagnostic"
)

// Printer is the generic printer surface a layer may call directly.
type Printer interface {
	// Print emits raw text.
	Print(s string)
	// PrintNode prints a node with the printer's full logic, including
	// decisions of the chain.
	PrintNode(n ast.Node)
	// PrintArgList prints a comma separated list of expressions.
	PrintArgList(args []ast.Expr)
	// PrintIndent emits the current indentation.
	PrintIndent()
	// StartIndent increments the indentation.
	StartIndent()
	// EndIndent decrements the indentation.
	EndIndent()

	// Stack returns the nodes being printed, outermost first.
	Stack() []ast.Node
	// Parent returns the node enclosing the current one, or nil.
	Parent() ast.Node
	// Unit returns the compilation unit being printed.
	Unit() *analyze.Unit

	// RootRelativeName renders the qualified name of obj as seen from the
	// current unit.
	RootRelativeName(obj types.Object) string
	// DefaultIdentifier renders obj's name without consulting the chain.
	DefaultIdentifier(obj types.Object) string

	// Report records a problem at node without altering control flow.
	Report(node ast.Node, kind diagnostic.Kind, params ...any)
}

// ParentOfKind walks the printer stack outwards from the current node and
// returns the nearest ancestor of type T.
func ParentOfKind[T ast.Node](p Printer) (T, bool) {
	stack := p.Stack()
	for i := len(stack) - 2; i >= 0; i-- {
		if n, ok := stack[i].(T); ok {
			return n, true
		}
	}

	var zero T

	return zero, false
}
