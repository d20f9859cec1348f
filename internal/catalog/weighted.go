package catalog

// Weighted is a table entry with a spawn probability.
type Weighted interface {
	SpawnWeight() float64
}

// PickWeighted scales r, a uniform draw in [0,1), by the total weight of
// entries and returns the first entry whose cumulative weight reaches it,
// so tables need not sum to 1. Rounding residue and all-zero tables fall
// back to the first entry. ok is false only when entries is empty.
func PickWeighted[T Weighted](entries []T, r float64) (picked T, ok bool) {
	if len(entries) == 0 {
		return picked, false
	}
	total := 0.0
	for _, e := range entries {
		total += e.SpawnWeight()
	}
	if total <= 0 {
		return entries[0], true
	}
	r *= total
	cumulative := 0.0
	for _, e := range entries {
		cumulative += e.SpawnWeight()
		if r <= cumulative {
			return e, true
		}
	}
	return entries[0], true
}
