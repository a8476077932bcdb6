package adapters

import (
	"go/ast"
	"strings"

	"go2ts/internal/adapter"
)

// printTemplate prints a call template. "$0" is the receiver, "$1" to "$9"
// the arguments and "$*" the whole argument list; any other text is printed
// as is.
func printTemplate(b *adapter.Base, tmpl string, recv ast.Expr, args []ast.Expr) {
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			b.Print(lit.String())
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 == len(tmpl) {
			lit.WriteByte(c)
			continue
		}

		next := tmpl[i+1]

		switch {
		case next == '*':
			flush()
			b.PrintArgList(args)

			i++

		case next >= '0' && next <= '9':
			flush()

			n := int(next - '0')
			if n == 0 {
				b.PrintNode(recv)
			} else if n <= len(args) {
				b.PrintNode(args[n-1])
			}

			i++

		default:
			lit.WriteByte(c)
		}
	}

	flush()
}
