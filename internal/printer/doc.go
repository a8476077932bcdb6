// Package printer lowers one Go compilation unit into TypeScript.
//
// The printer walks the syntax tree of an analyze.Unit and renders every
// node with a generic Go-to-TypeScript translation. Before rendering a node
// it asks the adapter chain whether a layer wants to print it instead (see
// package adapter); it never inspects which layers are present.
//
// A Printer serves a single run: create it with New, which binds it to the
// chain and asks the chain for its erased types, then call PrintUnit once.
//
// Translation summary:
//   - structs become classes with a Partial<T> constructor; the first kept
//     embedded struct becomes the superclass
//   - interfaces become interfaces; constraint interfaces become unions
//   - other named types become type aliases, their methods free functions
//     named Type$Method
//   - multiple results become tuples
//   - references to declarations of sibling files and other packages become
//     imports
package printer
