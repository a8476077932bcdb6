// Package match ranks names by similarity and classifies conversions
// between Go types by how they lower to TypeScript.
//
// Name ranking feeds "did you mean" suggestions for adapter names and
// configured type names:
//
//	match.Suggest("stdlb", []string{"stdlib", "docs", "rules"}, 3) // ["stdlib"]
//
// Identifiers are compared after normalization (case folded, separators
// and CamelCase boundaries removed), so "type_mappings" and "TypeMappings"
// are the same name.
package match
