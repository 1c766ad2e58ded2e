package rowdata

import (
	"math/rand"
	"sort"
)

// proofSampleSize is the number of rows kept per proof group.
const proofSampleSize = 3

// Proof reduces the set to a verification sample. With a variable column it
// keeps up to three randomly chosen rows per distinct value of that column
// and orders the result by that value; without one it keeps up to three rows
// from the whole set. Rows sharing a sort key keep their source order.
func (s *Set) Proof(variableColumn string, rng *rand.Rand) *Set {
	if s == nil || len(s.Rows) == 0 {
		return s
	}

	shuffled := make([]Row, len(s.Rows))
	copy(shuffled, s.Rows)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	sample := &Set{Columns: s.Columns}

	if variableColumn == "" {
		limit := proofSampleSize
		if limit > len(shuffled) {
			limit = len(shuffled)
		}
		sample.Rows = append(sample.Rows, shuffled[:limit]...)
		sort.Slice(sample.Rows, func(i, j int) bool {
			return sample.Rows[i].Ordinal < sample.Rows[j].Ordinal
		})
		return sample
	}

	counts := make(map[string]int)
	for _, row := range shuffled {
		key, _ := row.Value(variableColumn)
		if counts[key] >= proofSampleSize {
			continue
		}
		counts[key]++
		sample.Rows = append(sample.Rows, row)
	}

	sort.Slice(sample.Rows, func(i, j int) bool {
		left, _ := sample.Rows[i].Value(variableColumn)
		right, _ := sample.Rows[j].Value(variableColumn)
		if left != right {
			return left < right
		}
		return sample.Rows[i].Ordinal < sample.Rows[j].Ordinal
	})
	return sample
}
