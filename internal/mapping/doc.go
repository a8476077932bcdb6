// Package mapping loads, validates and writes adapter rule files.
//
// A rule file configures a run without code: the adapter layers to stack,
// type mappings, annotations, erased types and call rewrites. YAML and
// TOML are accepted; the format follows the file extension.
//
// # Schema Overview
//
//	version: "1"
//	# built-in layers, innermost first; "typescript" is always the root
//	adapters: [stdlib, docs, embedding, rules]
//	typeMappings:
//	  time.Time: Date
//	  geom.Point: "{ x: number; y: number }"   # short package names resolve
//	annotations:
//	  - annotation: Erased
//	    filters: "*.internal*"                # string or list
//	  - annotation: Name
//	    value: area
//	    filters: ["*.Area(*)", "!*.Legacy*"]
//	erasedTypes:
//	  - sync.Mutex
//	calls:
//	  - target: example.com/geom.Point.Scale
//	    print: "$0.scaleBy($1)"
//
// # Call templates
//
// A call rule replaces every call of its target. In print, $0 is the
// receiver (empty for functions), $1..$9 the arguments and $* the whole
// argument list.
//
// # Priority Order
//
// Later annotation entries take precedence over earlier ones, matching the
// registration order of the adapter context. For type mappings the last
// file loaded wins.
package mapping
