// Package filter matches annotation filters against declaration signatures.
//
// A filter is a simplified regular expression over a declaration signature:
//
//	*   matches any run of characters
//	!   as the first character, negates the filter
//
// A list of filters matches when at least one positive filter matches and no
// negative filter does. A list with only negative filters never matches.
//
// Signatures use fully qualified package paths:
//
//	go2ts/examples/geom.Point               type, var, const
//	go2ts/examples/geom.Point.X             struct field
//	go2ts/examples/geom.Dist(float64,float64) function
//	go2ts/examples/geom.Point.Scale(float64)  method
package filter
