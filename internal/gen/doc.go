// Package gen drives transpilation runs over loaded compilation units.
//
// Every unit gets its own run: a fresh adapter.Context, an adapter chain
// built from the configured layer names, and a printer bound to that chain.
// Runs share no state, so the Generator processes units concurrently.
//
// Output layout mirrors import paths:
//   - one .ts file per Go file, under the directory of its package path
//   - one index.ts per package re-exporting its files, dependencies first
package gen
