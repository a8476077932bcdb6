package mapping

import (
	"fmt"
	"regexp"
	"strconv"

	"go2ts/internal/adapter"
	"go2ts/internal/analyze"
	"go2ts/internal/diagnostic"
	"go2ts/internal/match"
)

const maxSuggestions = 3

// Known is what a rule file is validated against.
type Known struct {
	// Adapters holds the names of the layers that may be stacked.
	Adapters []string
	// Root is the name of the layer every chain starts with.
	Root string
	// Index holds the loaded types; nil skips type checks.
	Index *analyze.TypeIndex
}

var placeholder = regexp.MustCompile(`\$(\d+|\*)`)

// Validate checks rf structurally and, when known.Index is set, checks the
// type names it mentions. Unknown names carry suggestions.
func Validate(rf *RuleFile, known Known) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if rf == nil {
		res.AddError("rules_is_nil", "rule file is nil")
		return res
	}

	if rf.Version != CurrentVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported rule file version %q, want %q", rf.Version, CurrentVersion))
	}

	validateAdapters(res, rf, known)
	validateTypeMappings(res, rf, known)
	validateAnnotations(res, rf)
	validateErasedTypes(res, rf, known)
	validateCalls(res, rf)

	return res
}

func validateAdapters(res *diagnostic.Diagnostics, rf *RuleFile, known Known) {
	seen := make(map[string]bool)

	for _, name := range rf.Adapters {
		switch {
		case name == known.Root && name != "":
			res.AddWarning("root_adapter_listed",
				fmt.Sprintf("adapter %q is always the root of the chain and need not be listed", name))

		case !contains(known.Adapters, name):
			res.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.DiagnosticError,
				Code:        "unknown_adapter",
				Message:     fmt.Sprintf("unknown adapter %q", name),
				Suggestions: match.Suggest(name, known.Adapters, maxSuggestions),
			})

		case seen[name]:
			res.AddError("duplicate_adapter", fmt.Sprintf("adapter %q is listed twice", name))
		}

		seen[name] = true
	}
}

func validateTypeMappings(res *diagnostic.Diagnostics, rf *RuleFile, known Known) {
	for _, source := range sortedKeys(rf.TypeMappings) {
		if rf.TypeMappings[source] == "" {
			res.AddError("empty_type_mapping", fmt.Sprintf("type mapping for %s has no target", source))
		}

		checkTypeName(res, source, known)
	}
}

func validateAnnotations(res *diagnostic.Diagnostics, rf *RuleFile) {
	for i, rule := range rf.Annotations {
		if _, err := adapter.ParseAnnotation(rule.Descriptor()); err != nil {
			res.Report(positionless(), diagnostic.KindInvalidAnnotation, rule.Descriptor(), err.Error())
			continue
		}

		if len(rule.Filters) == 0 {
			res.AddError("missing_filters", fmt.Sprintf("annotation #%d (%s) has no filters", i+1, rule.Descriptor()))
		}
	}
}

func validateErasedTypes(res *diagnostic.Diagnostics, rf *RuleFile, known Known) {
	for _, name := range rf.ErasedTypes {
		checkTypeName(res, name, known)
	}
}

func validateCalls(res *diagnostic.Diagnostics, rf *RuleFile) {
	for i, call := range rf.Calls {
		label := fmt.Sprintf("call rule #%d", i+1)

		if call.Target == "" || call.Owner() == "" || call.Member() == "" {
			res.AddError("invalid_call_target",
				fmt.Sprintf("%s: target %q must be qualified, e.g. strings.ToUpper", label, call.Target))
		}

		if call.Print == "" {
			res.AddError("missing_call_print", label+": print template is empty")
			continue
		}

		for _, m := range placeholder.FindAllStringSubmatch(call.Print, -1) {
			if m[1] == "*" {
				continue
			}

			if n, _ := strconv.Atoi(m[1]); n > 9 {
				res.AddError("invalid_placeholder", fmt.Sprintf("%s: placeholder $%d is out of range", label, n))
			}
		}
	}
}

// checkTypeName warns about qualified names of loaded packages that do not
// resolve to a declared type.
func checkTypeName(res *diagnostic.Diagnostics, name string, known Known) {
	if known.Index == nil || !IsLoaded(name, known.Index) {
		return
	}

	if _, ok := ResolveTypeName(name, known.Index); ok {
		return
	}

	res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.KindUnknownMappedType.Severity(),
		Code:        diagnostic.KindUnknownMappedType.Code(),
		Message:     diagnostic.KindUnknownMappedType.Message(name),
		Suggestions: match.Suggest(name, known.Index.Names(), maxSuggestions),
	})
}
