package qm

import "sort"

// PrimeImplicants implements the QM merge phase over the given terms
// (minterms and don't-cares together). Implicants are grouped by One-count
// and adjacent groups are merged round after round; anything that took no
// part in a merge during its round is prime. Primes are returned sorted by
// pattern, each pattern once.
func PrimeImplicants(width int, terms []int) ([]Implicant, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}

	current := make([]Implicant, 0, len(terms))
	seen := make(map[int]bool, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		imp, err := FromTerm(t, width)
		if err != nil {
			return nil, err
		}
		current = append(current, imp)
	}

	primeSet := make(map[key]Implicant)
	for len(current) > 0 {
		buckets := Group(current, width)
		used := make([][]bool, len(buckets))
		for n := range buckets {
			used[n] = make([]bool, len(buckets[n]))
		}

		var next []Implicant
		nextIdx := make(map[key]int)
		for n := 0; n+1 < len(buckets); n++ {
			merged, usedA, usedB := CombineAdjacent(buckets[n], buckets[n+1])
			for i, u := range usedA {
				used[n][i] = used[n][i] || u
			}
			for j, u := range usedB {
				used[n+1][j] = used[n+1][j] || u
			}
			for _, m := range merged {
				if idx, ok := nextIdx[m.k]; ok {
					next[idx].covering = next[idx].covering.Union(m.covering)
					continue
				}
				nextIdx[m.k] = len(next)
				next = append(next, m)
			}
		}

		// Unmerged implicants are prime
		for n, bucket := range buckets {
			for i, imp := range bucket {
				if used[n][i] {
					continue
				}
				if _, ok := primeSet[imp.k]; !ok {
					primeSet[imp.k] = imp
				}
			}
		}

		current = next
	}

	primes := make([]Implicant, 0, len(primeSet))
	for _, p := range primeSet {
		primes = append(primes, p)
	}
	sortImplicants(primes)
	return primes, nil
}

// sortImplicants orders implicants by their MSB-first pattern string.
func sortImplicants(imps []Implicant) {
	sort.Slice(imps, func(i, j int) bool {
		return imps[i].String() < imps[j].String()
	})
}
