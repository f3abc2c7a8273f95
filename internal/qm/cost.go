package qm

// CostedCover is a cover together with its gate cost.
type CostedCover struct {
	Cover []int `json:"cover" yaml:"cover"`
	Cost  int   `json:"cost" yaml:"cost"`
}

// Cost charges 2n+2 for every n-input AND gate (n > 0) and, when there is
// more than one product term, 2k+2 for the k-input OR gate. Inverters are
// free.
func Cost(primes []Implicant, cover []int) int {
	cost := 0
	for _, pi := range cover {
		if n := len(primes[pi].Literals()); n > 0 {
			cost += 2*n + 2
		}
	}
	if k := len(cover); k > 1 {
		cost += 2*k + 2
	}
	return cost
}

// CheapestCovers returns, in input order, every cover whose cost equals the
// minimum over all covers.
func CheapestCovers(primes []Implicant, covers [][]int) []CostedCover {
	costs := make([]int, len(covers))
	best := -1
	for i, c := range covers {
		costs[i] = Cost(primes, c)
		if best < 0 || costs[i] < best {
			best = costs[i]
		}
	}
	var out []CostedCover
	for i, c := range covers {
		if costs[i] == best {
			out = append(out, CostedCover{Cover: c, Cost: costs[i]})
		}
	}
	return out
}
