package common

// First returns the leading element of a list-valued setting such as a
// single-or-many YAML field. ok is false for an empty list.
func First[S ~[]E, E any](s S) (first E, ok bool) {
	if len(s) > 0 {
		first, ok = s[0], true
	}

	return first, ok
}
