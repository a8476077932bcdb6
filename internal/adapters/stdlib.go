package adapters

import (
	"go/ast"
	"go/types"
	"slices"

	"go2ts/internal/adapter"
	"go2ts/internal/analyze"
	"go2ts/internal/diagnostic"
)

// Stdlib lowers calls into the Go standard library onto the JavaScript
// runtime and drops the imports of standard library packages.
type Stdlib struct {
	*adapter.Base
}

var _ adapter.Adapter = (*Stdlib)(nil)

// stdlibCalls holds call templates keyed by package path and function.
var stdlibCalls = map[string]map[string]string{
	"strings": {
		"Contains":   "$1.includes($2)",
		"HasPrefix":  "$1.startsWith($2)",
		"HasSuffix":  "$1.endsWith($2)",
		"Index":      "$1.indexOf($2)",
		"Join":       "$1.join($2)",
		"Repeat":     "$1.repeat($2)",
		"ReplaceAll": "$1.replaceAll($2, $3)",
		"Split":      "$1.split($2)",
		"ToLower":    "$1.toLowerCase()",
		"ToUpper":    "$1.toUpperCase()",
		"TrimSpace":  "$1.trim()",
		"Fields":     "$1.trim().split(/\\s+/).filter((s) => s !== \"\")",
	},
	"math": {
		"Abs":   "Math.abs($1)",
		"Ceil":  "Math.ceil($1)",
		"Cos":   "Math.cos($1)",
		"Exp":   "Math.exp($1)",
		"Floor": "Math.floor($1)",
		"Hypot": "Math.hypot($1, $2)",
		"Log":   "Math.log($1)",
		"Max":   "Math.max($1, $2)",
		"Min":   "Math.min($1, $2)",
		"Pow":   "Math.pow($1, $2)",
		"Sin":   "Math.sin($1)",
		"Sqrt":  "Math.sqrt($1)",
		"Trunc": "Math.trunc($1)",
		"Inf":   "($1 >= 0 ? Infinity : -Infinity)",
		"IsNaN": "Number.isNaN($1)",
	},
	"strconv": {
		"Itoa":  "String($1)",
		"Quote": "JSON.stringify($1)",
	},
	"fmt": {
		"Print":   "console.log($*)",
		"Println": "console.log($*)",
		"Sprint":  "[$*].join(\"\")",
	},
	"errors": {
		"New": "new Error($1)",
	},
	"sort": {
		"Ints":     "$1.sort((a, b) => a - b)",
		"Float64s": "$1.sort((a, b) => a - b)",
		"Strings":  "$1.sort()",
	},
	"time": {
		"Now":   "new Date()",
		"Since": "(Date.now() - $1.getTime()) * 1e6",
	},
}

var stdlibFields = map[string]map[string]string{
	"math": {
		"Pi":         "Math.PI",
		"E":          "Math.E",
		"Sqrt2":      "Math.SQRT2",
		"Ln2":        "Math.LN2",
		"MaxInt":     "Number.MAX_SAFE_INTEGER",
		"MinInt":     "Number.MIN_SAFE_INTEGER",
		"MaxInt64":   "Number.MAX_SAFE_INTEGER",
		"MaxFloat64": "Number.MAX_VALUE",
	},
	"time": {
		"Nanosecond":  "1",
		"Microsecond": "1e3",
		"Millisecond": "1e6",
		"Second":      "1e9",
		"Minute":      "6e10",
		"Hour":        "3.6e12",
	},
}

var stdlibTypes = map[string]string{
	"time.Time":     "Date",
	"time.Duration": "number",
}

// syncTypes are the standard library types erased from the output.
var syncTypes = []string{
	"sync.Mutex",
	"sync.RWMutex",
	"sync.WaitGroup",
	"sync.Once",
}

// NewStdlib stacks the standard library layer on parent and registers its
// type mappings.
func NewStdlib(parent adapter.Adapter) (*Stdlib, error) {
	base, err := adapter.NewBase(parent)
	if err != nil {
		return nil, err
	}

	s := &Stdlib{Base: base}
	s.AddTypeMappings(stdlibTypes)

	return s, nil
}

// ErasedTypes adds the sync primitives to the parent's set.
func (s *Stdlib) ErasedTypes() (map[string]struct{}, error) {
	return mergeErased(s.Parent(), syncTypes...)
}

// NeedsImport drops standard library imports.
func (s *Stdlib) NeedsImport(spec *ast.ImportSpec, path string) string {
	if isStdlib(path) {
		return ""
	}

	return s.Base.NeedsImport(spec, path)
}

// SubstituteMethodInvocation applies the call templates of stdlibCalls.
// Other calls into the standard library are reported and left to the
// parent.
func (s *Stdlib) SubstituteMethodInvocation(inv adapter.Invocation) bool {
	if inv.OwnerPkg == nil || !isStdlib(inv.OwnerPkg.Path()) {
		return s.Base.SubstituteMethodInvocation(inv)
	}

	if tmpl, ok := stdlibCalls[inv.OwnerName][inv.Member]; ok {
		printTemplate(s.Base, tmpl, inv.Receiver(), inv.Args())
		return true
	}

	if s.Base.SubstituteMethodInvocation(inv) {
		return true
	}

	if !s.Unit().IsType(inv.Call.Fun) {
		s.Report(inv.Call, diagnostic.KindUserWarning, "no lowering for "+inv.OwnerName+"."+inv.Member)
	}

	return false
}

// SubstituteFieldAccess prints standard library constants.
func (s *Stdlib) SubstituteFieldAccess(access adapter.FieldAccess) bool {
	if access.OwnerPkg != nil {
		if value, ok := stdlibFields[access.OwnerName][access.Member]; ok {
			s.Print(value)
			return true
		}
	}

	return s.Base.SubstituteFieldAccess(access)
}

// EraseSuperClass drops embedded sync primitives.
func (s *Stdlib) EraseSuperClass(decl *ast.TypeSpec, super *types.Named) bool {
	if slices.Contains(syncTypes, analyze.QualifiedName(super)) {
		return true
	}

	return s.Base.EraseSuperClass(decl, super)
}
