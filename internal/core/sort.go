package core

import "sort"

// SortByDistance returns a copy of records ordered by ascending odometer
// reading. Ties keep their input order. The input slice is not modified.
func SortByDistance(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AtDistance.LessThan(out[j].AtDistance)
	})
	return out
}
