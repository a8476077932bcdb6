package gen

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// importCycleError lists the files of a package that could not be placed
// because they import each other.
type importCycleError struct {
	files []int
}

func (e *importCycleError) Error() string {
	return fmt.Sprintf("%d files import each other in a cycle", len(e.files))
}

// topoSort orders the n files of one package so that every file comes after
// the sibling files it imports. imports(i) lists the files file i imports.
//
// Among the files whose imports are all placed the lowest index goes first,
// so the order depends on the input only. Files left unplaced by an import
// cycle, including files importing the cycle, are reported through
// *importCycleError.
func topoSort(n int, imports func(i int) []int) ([]int, error) {
	pending := make([]int, n)     // imports of i not placed yet
	importers := make([][]int, n) // files importing i

	for i := range n {
		for _, dep := range imports(i) {
			if dep < 0 || dep >= n {
				return nil, errors.Newf("file %d imports unknown file %d", i, dep)
			}

			pending[i]++
			importers[dep] = append(importers[dep], i)
		}
	}

	placed := make([]bool, n)
	order := make([]int, 0, n)

	for len(order) < n {
		next := -1
		for i := range n {
			if !placed[i] && pending[i] == 0 {
				next = i
				break
			}
		}

		if next < 0 {
			break
		}

		placed[next] = true
		order = append(order, next)

		for _, j := range importers[next] {
			pending[j]--
		}
	}

	if len(order) == n {
		return order, nil
	}

	cycle := &importCycleError{}
	for i := range n {
		if !placed[i] {
			cycle.files = append(cycle.files, i)
		}
	}

	return nil, cycle
}
