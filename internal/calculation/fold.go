package calculation

import "sort"

// Fold threads state through years in ascending order. step receives the
// state produced by the previous year and returns the next state plus that
// year's result. The input slice is not modified.
func Fold[S, R any](years []int, initial S, step func(state S, year int) (S, R)) ([]R, S) {
	ordered := append([]int(nil), years...)
	sort.Ints(ordered)

	results := make([]R, 0, len(ordered))
	state := initial
	for _, year := range ordered {
		var r R
		state, r = step(state, year)
		results = append(results, r)
	}
	return results, state
}
