package match

import (
	"sort"
	"strings"
)

// DefaultThreshold is the minimum similarity of a suggestion.
const DefaultThreshold = 0.5

// Candidate is a known name scored against a misspelled one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is sorted by descending score, then by name.
type CandidateList []Candidate

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}

	return names
}

// Rank scores every known name against name. Qualified names
// ("example.com/geom.Point") also score on their last element, so a
// short name can find its qualified form.
func Rank(name string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	for _, k := range known {
		score := NameSimilarity(name, k)

		if short := lastElement(k); short != k && !strings.Contains(name, ".") {
			score = max(score, NameSimilarity(name, short))
		}

		candidates = append(candidates, Candidate{Name: k, Score: score})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n known names similar to name, best first.
func Suggest(name string, known []string, n int) []string {
	return Rank(name, known).AboveThreshold(DefaultThreshold).Top(n).Names()
}

func lastElement(qualified string) string {
	if i := strings.LastIndexAny(qualified, "./"); i >= 0 {
		return qualified[i+1:]
	}

	return qualified
}
