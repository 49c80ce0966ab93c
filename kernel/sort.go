package kernel

// SortSmall stably sorts a small index array (n <= galois.MaxParity) in
// place, the raid_sort contract of spec §4.8/§6: callers with out-of-order
// id[]/ip[] arrays normalize them before calling Recover.
func SortSmall(v []int) {
	// Insertion sort: simplest stable sort, and fastest for n<=6.
	for i := 1; i < len(v); i++ {
		key := v[i]
		j := i - 1
		for j >= 0 && v[j] > key {
			v[j+1] = v[j]
			j--
		}
		v[j+1] = key
	}
}
