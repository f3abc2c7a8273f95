package qm

// CoverageTable maps each minterm to the indices of the primes covering it.
func CoverageTable(primes []Implicant, minterms []int) map[int][]int {
	table := make(map[int][]int, len(minterms))
	for _, m := range minterms {
		var covering []int
		for pi, p := range primes {
			if p.Covers(m) {
				covering = append(covering, pi)
			}
		}
		table[m] = covering
	}
	return table
}

// Essentials flags, parallel to primes, every prime that is the sole cover
// of at least one minterm. Don't-cares never make a prime essential.
func Essentials(primes []Implicant, minterms []int) []bool {
	essential := make([]bool, len(primes))
	for _, covering := range CoverageTable(primes, minterms) {
		if len(covering) == 1 {
			essential[covering[0]] = true
		}
	}
	return essential
}

// Uncovered lists, in the order given, the minterms that no essential prime
// covers.
func Uncovered(primes []Implicant, essential []bool, minterms []int) []int {
	var out []int
	for _, m := range minterms {
		covered := false
		for pi, p := range primes {
			if essential[pi] && p.Covers(m) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, m)
		}
	}
	return out
}
