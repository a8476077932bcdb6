package match

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	adapters := []string{"typescript", "stdlib", "docs", "embedding", "rules"}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"one typo", "stdlb", []string{"stdlib"}},
		{"transposition", "typescirpt", []string{"typescript"}},
		{"case", "Docs", []string{"docs"}},
		{"nothing close", "kafka", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.input, adapters, 3)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSuggest_QualifiedNames(t *testing.T) {
	known := []string{
		"example.com/geom.Point",
		"example.com/geom.Polygon",
		"example.com/app.Order",
	}

	got := Suggest("Pont", known, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "example.com/geom.Point", got[0])

	got = Suggest("example.com/geom.Pointt", known, 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "example.com/geom.Point", got[0])
}

func TestRank_Ordering(t *testing.T) {
	ranked := Rank("rules", []string{"docs", "rules", "rule", "ruler"})

	require.Len(t, ranked, 4)
	assert.Equal(t, "rules", ranked[0].Name)
	assert.InDelta(t, 1.0, ranked[0].Score, 0.001)
	assert.True(t, sort.IsSorted(ranked))
}

func TestCandidateList_Top(t *testing.T) {
	list := CandidateList{{Name: "a", Score: 0.9}, {Name: "b", Score: 0.8}, {Name: "c", Score: 0.4}}

	assert.Len(t, list.Top(2), 2)
	assert.Len(t, list.Top(10), 3)
	assert.Equal(t, []string{"a", "b"}, list.AboveThreshold(0.5).Names())
}

func TestCandidateList_TieBreakByName(t *testing.T) {
	list := CandidateList{{Name: "b", Score: 0.5}, {Name: "a", Score: 0.5}}
	sort.Sort(list)

	assert.Equal(t, []string{"a", "b"}, list.Names())
}
