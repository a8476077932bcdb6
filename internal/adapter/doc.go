// Package adapter lets independently written extensions customize how the
// printer lowers a Go syntax tree into TypeScript.
//
// # Chains
//
// An Adapter is one customization layer. Layers form a chain: the root
// layer (NewRoot) owns the run's Context and has no parent; every other
// layer (NewBase) wraps a parent and inherits its Context. The printer only
// talks to the outermost layer.
//
//	root, _ := adapters.NewTypeScript(ctx) // baseline
//	a, _ := adapters.NewStdlib(root)       // consulted second
//	b, _ := adapters.NewDocs(a)            // consulted first
//	b.SetPrinter(p)                        // reaches b, a and root
//
// # Decisions
//
// Each decision method asks "does this layer handle node X?". Layers embed
// *Base, whose methods forward the question to the parent, and override only
// the decisions they care about. A layer that returns true has already
// printed the node through the Printer; a false result lets the printer fall
// back to its own rendering. When no layer claims a decision, the root
// answers the documented baseline:
//
//	Substitute*            false (print the default rendering)
//	AdaptDocComment        the comment unchanged
//	NeedsTypeCast          true
//	NeedsVariableDecl      true
//	EraseSuper*            false
//	IsSubstituteSuperTypes false
//	Identifier             Printer.DefaultIdentifier
//	QualifiedTypeName      Printer.RootRelativeName
//	NeedsImport            the import path (blank imports: "")
//	ErasedTypes            ErrUnimplemented
//
// Statement decisions print after the indentation and without the trailing
// semicolon or newline; the printer adds both.
//
// Call sites, selectors and composite literals are normalized once by
// SubstituteCall, SubstituteSelector and SubstituteCompositeLit before any
// layer sees them.
//
// # Context
//
// Registrations (type mappings, annotation rules, erased type variables)
// always land in the single Context of the run, whichever layer makes them.
package adapter
