package qm

// Group buckets implicants by their number of One positions. The result
// always has width+1 buckets; empty buckets are nil.
func Group(imps []Implicant, width int) [][]Implicant {
	buckets := make([][]Implicant, width+1)
	for _, imp := range imps {
		n := imp.Ones()
		buckets[n] = append(buckets[n], imp)
	}
	return buckets
}

// CombineAdjacent merges every legal pair drawn from two buckets whose
// One-counts differ by one. Merged implicants are deduplicated by pattern,
// in first-seen order. usedA and usedB flag the members that took part in
// at least one merge.
func CombineAdjacent(a, b []Implicant) (merged []Implicant, usedA, usedB []bool) {
	usedA = make([]bool, len(a))
	usedB = make([]bool, len(b))
	seen := make(map[key]int)
	for i, x := range a {
		for j, y := range b {
			if _, ok := mergeable(x.k, y.k); !ok {
				continue
			}
			m, err := Merge(x, y)
			if err != nil {
				// mergeable and Merge share one rule
				panic(err)
			}
			usedA[i] = true
			usedB[j] = true
			if idx, ok := seen[m.k]; ok {
				merged[idx].covering = merged[idx].covering.Union(m.covering)
				continue
			}
			seen[m.k] = len(merged)
			merged = append(merged, m)
		}
	}
	return merged, usedA, usedB
}
