package relationship

import "sort"

// Distribution counts classified rows per kind.
type Distribution map[Kind]int

// Observe records one classified row.
func (d Distribution) Observe(k Kind) { d[k]++ }

// Total returns the number of observed rows.
func (d Distribution) Total() int {
	total := 0
	for _, count := range d {
		total += count
	}
	return total
}

// Kinds returns the observed kinds sorted by label, for stable reports.
func (d Distribution) Kinds() []Kind {
	kinds := make([]Kind, 0, len(d))
	for k := range d {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
