package news

import "sort"

func sortByScore(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sortStableByScore(out)
	return out
}

func sortStableByScore(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

// TopN returns the n highest-scoring entries, ties kept in input order.
func TopN(entries []Entry, n int) []Entry {
	sorted := sortByScore(entries)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
