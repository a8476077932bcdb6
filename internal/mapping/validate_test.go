package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go2ts/internal/analyze"
	"go2ts/internal/diagnostic"
)

var knownAdapters = Known{
	Adapters: []string{"stdlib", "docs", "embedding", "rules"},
	Root:     "typescript",
}

func geomIndex(t *testing.T) *analyze.TypeIndex {
	t.Helper()

	checked, err := analyze.CheckSource(analyze.Source{
		Path:  "example.com/geom",
		Files: map[string]string{"geom.go": "package geom\n\ntype Point struct{ X, Y float64 }\n\ntype Polygon []Point\n"},
	})
	require.NoError(t, err)

	index := analyze.NewTypeIndex()
	index.AddPackage(checked.Pkg)

	return index
}

func codes(diags []diagnostic.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}

	return out
}

func TestValidate_Valid(t *testing.T) {
	rf, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	known := knownAdapters
	known.Index = geomIndex(t)

	res := Validate(rf, known)
	assert.True(t, res.IsValid(), res.Error())
	assert.Empty(t, res.Warnings)
}

func TestValidate_Nil(t *testing.T) {
	res := Validate(nil, knownAdapters)
	assert.Equal(t, []string{"rules_is_nil"}, codes(res.Errors))
}

func TestValidate_Adapters(t *testing.T) {
	rf := &RuleFile{
		Version:  CurrentVersion,
		Adapters: StringOrArray{"typescript", "stdlb", "docs", "docs"},
	}

	res := Validate(rf, knownAdapters)

	assert.Equal(t, []string{"unknown_adapter", "duplicate_adapter"}, codes(res.Errors))
	assert.Equal(t, []string{"stdlib"}, res.Errors[0].Suggestions)
	assert.Equal(t, []string{"root_adapter_listed"}, codes(res.Warnings))
}

func TestValidate_Version(t *testing.T) {
	res := Validate(&RuleFile{Version: "2"}, knownAdapters)
	assert.Equal(t, []string{"unsupported_version"}, codes(res.Errors))
}

func TestValidate_TypeNames(t *testing.T) {
	rf := &RuleFile{
		Version: CurrentVersion,
		TypeMappings: map[string]string{
			"example.com/geom.Pont": "P",
			"geom.Point":            "",
			"time.Time":             "Date",
		},
		ErasedTypes: StringOrArray{"example.com/geom.Polygone"},
	}

	known := knownAdapters
	known.Index = geomIndex(t)

	res := Validate(rf, known)

	assert.Equal(t, []string{"empty_type_mapping"}, codes(res.Errors))
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, diagnostic.KindUnknownMappedType.Code(), res.Warnings[0].Code)
	assert.Equal(t, "example.com/geom.Point", res.Warnings[0].Suggestions[0])
	assert.Equal(t, "example.com/geom.Polygon", res.Warnings[1].Suggestions[0])
}

func TestValidate_Annotations(t *testing.T) {
	rf := &RuleFile{
		Version: CurrentVersion,
		Annotations: []AnnotationRule{
			{Annotation: "Erased"},
			{Annotation: "", Filters: StringOrArray{"*"}},
		},
	}

	res := Validate(rf, knownAdapters)

	assert.ElementsMatch(t, []string{"missing_filters", diagnostic.KindInvalidAnnotation.Code()}, codes(res.Errors))
}

func TestValidate_Calls(t *testing.T) {
	rf := &RuleFile{
		Version: CurrentVersion,
		Calls: []CallRule{
			{Target: "ToUpper", Print: "x"},
			{Target: "strings.ToLower"},
			{Target: "math.Hypot", Print: "Math.hypot($1, $12)"},
			{Target: "math.Max", Print: "Math.max($*)"},
		},
	}

	res := Validate(rf, knownAdapters)

	assert.Equal(t, []string{"invalid_call_target", "missing_call_print", "invalid_placeholder"}, codes(res.Errors))
}

func TestResolve(t *testing.T) {
	index := geomIndex(t)

	rf := &RuleFile{
		TypeMappings: map[string]string{"geom.Point": "P", "time.Time": "Date"},
		ErasedTypes:  StringOrArray{"geom.Polygon", "sync.Mutex"},
	}

	Resolve(rf, index)

	assert.Equal(t, map[string]string{"example.com/geom.Point": "P", "time.Time": "Date"}, rf.TypeMappings)
	assert.Equal(t, StringOrArray{"example.com/geom.Polygon", "sync.Mutex"}, rf.ErasedTypes)
}

func TestResolveTypeName(t *testing.T) {
	index := geomIndex(t)

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"example.com/geom.Point", "example.com/geom.Point", true},
		{"geom.Point", "example.com/geom.Point", true},
		{"int", "int", true},
		{"geom.Circle", "geom.Circle", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveTypeName(tt.name, index)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
