// Package debug implements the debug-info tables of an SMX image and
// the address-to-symbol resolution built on them.
package debug

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// LowerBound returns the index of the greatest row whose key does not
// exceed target. All four address-indexed tables share this one
// implementation so the half-open interval rule cannot diverge
// between them. Rows must be in ascending key order.
func LowerBound[T any, K constraints.Ordered](rows []T, key func(*T) K, target K) (int, bool) {
	// First index with key > target; the hit, if any, is just before it.
	i := sort.Search(len(rows), func(i int) bool {
		return key(&rows[i]) > target
	})
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}
