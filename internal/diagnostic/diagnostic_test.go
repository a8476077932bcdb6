package diagnostic

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		kind     Kind
		params   []any
		code     string
		severity DiagnosticSeverity
		message  string
	}{
		{KindUnsupportedNode, []any{"DeferStmt"}, "G2T001", DiagnosticError, "unsupported syntax: DeferStmt"},
		{KindUnsupportedType, []any{"chan int"}, "G2T002", DiagnosticWarning, "type chan int has no TypeScript equivalent, printed as any"},
		{KindInvalidAnnotation, []any{"@Name(", "missing ')'"}, "G2T003", DiagnosticError, `invalid annotation "@Name(": missing ')'`},
		{KindErasedDeclaration, []any{"Item.Base"}, "G2T005", DiagnosticInfo, "declaration Item.Base erased"},
		{KindUserWarning, []any{"no lowering for strconv.FormatInt"}, "G2T100", DiagnosticWarning, "no lowering for strconv.FormatInt"},
		{Kind(99), []any{"x"}, "G2T000", DiagnosticError, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.kind.Code())
			assert.Equal(t, tt.severity, tt.kind.Severity())
			assert.Equal(t, tt.message, tt.kind.Message(tt.params...))
		})
	}
}

func TestDiagnostics_Report(t *testing.T) {
	var d Diagnostics

	pos := token.Position{Filename: "point.go", Line: 3, Column: 2}
	d.Report(pos, KindUnsupportedNode, "GoStmt")
	d.Report(pos, KindUserWarning, "slow path")
	d.Report(token.Position{}, KindErasedDeclaration, "Mutex")

	assert.Equal(t, 3, d.Len())
	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, "G2T001", all[0].Code)
	assert.Equal(t, "G2T100", all[1].Code)
	assert.Equal(t, "G2T005", all[2].Code)

	assert.Equal(t, "point.go:3:2: [G2T001] unsupported syntax: GoStmt", all[0].String())
	assert.Equal(t, "[G2T005] declaration Mutex erased", all[2].String())

	err := d.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "G2T001")
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddWarning("w", "first", "x", "y")
	b.AddError("e", "second")

	a.Merge(b)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, "[w] first (did you mean x, y?)", a.Warnings[0].String())
	assert.Equal(t, "[e] second", a.Errors[0].String())
}

func TestDiagnostics_Valid(t *testing.T) {
	var d Diagnostics
	d.AddWarning("w", "only a warning")

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(7).String())
}

func TestDiagnostic_FileOnlyPosition(t *testing.T) {
	d := Diagnostic{Code: "c", Message: "m", Position: token.Position{Filename: "a.go"}}
	assert.Equal(t, "a.go: [c] m", d.String())
}
