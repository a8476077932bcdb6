package mapping

import (
	"go/token"
	"slices"
	"sort"
)

func contains(list []string, s string) bool {
	return slices.Contains(list, s)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func positionless() token.Position {
	return token.Position{}
}
