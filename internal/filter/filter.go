package filter

import (
	"regexp"
	"strings"
	"sync"
)

const (
	wildcard = "*"
	negation = "!"
)

var cache sync.Map // pattern -> *regexp.Regexp

// Match reports whether signature is selected by patterns.
func Match(patterns []string, signature string) bool {
	matched := false

	for _, p := range patterns {
		if neg, ok := strings.CutPrefix(p, negation); ok {
			if compile(neg).MatchString(signature) {
				return false
			}

			continue
		}

		if !matched && compile(p).MatchString(signature) {
			matched = true
		}
	}

	return matched
}

func compile(pattern string) *regexp.Regexp {
	if re, ok := cache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}

	parts := strings.Split(pattern, wildcard)
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}

	re := regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
	cache.Store(pattern, re)

	return re
}
