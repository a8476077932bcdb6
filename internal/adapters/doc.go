// Package adapters provides the adapter layers shipped with go2ts.
//
// NewTypeScript builds the root layer every chain starts from: it maps the
// predeclared Go types, lowers builtin functions and conversions, prints map
// element access through the Map API and answers ErasedTypes. The other
// layers are optional and stack on top of it:
//
//	stdlib     strings, math, strconv, fmt, errors, sort and time lowering
//	embedding  drops embedded types of packages outside the module
//	docs       rewrites doc links and deprecation notices as TSDoc
//	rules      type mappings, annotations and call templates from a rule file
//
// Build composes a chain from layer names, the way the command line and
// rule files refer to them.
package adapters
