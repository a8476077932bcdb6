package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent lowercases s and removes separators, so that
// "OrderID", "order_id" and "order-id" compare equal.
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(tokenize(s), ""))
}

// tokenize splits an identifier at separators and CamelCase boundaries.
//
//	"XMLParser"       -> ["XML", "Parser"]
//	"getHTTPResponse" -> ["get", "HTTP", "Response"]
//	"type_mappings"   -> ["type", "mappings"]
func tokenize(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.' || r == '/'
}

func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	// end of an acronym: "XMLParser" splits before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
