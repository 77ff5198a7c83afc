package aggregate

import (
	"cmp"
	"sort"
)

// KeyCount pairs a secondary key with its count.
type KeyCount struct {
	Key   string
	Count int
}

// TopN returns the n sub-keys of stats with the highest counts. Ties are
// ordered by ascending key.
func TopN(stats *CompositeStats, n int) []KeyCount {
	if stats == nil || n <= 0 || len(stats.Sub) == 0 {
		return nil
	}
	items := make([]KeyCount, 0, len(stats.Sub))
	for k, c := range stats.Sub {
		items = append(items, KeyCount{Key: k, Count: c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Key < items[j].Key
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// Ranked is a primary key with the total used to rank it.
type Ranked[K cmp.Ordered] struct {
	Key   K
	Total int
}

// TopByTotal returns the n keys of m with the highest total, ties ordered by
// ascending key. A zero or negative n returns every key.
func TopByTotal[K cmp.Ordered, S any](m Map[K, S], n int, total func(*S) int) []Ranked[K] {
	if len(m) == 0 {
		return nil
	}
	items := make([]Ranked[K], 0, len(m))
	for k, s := range m {
		items = append(items, Ranked[K]{Key: k, Total: total(s)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Total == items[j].Total {
			return items[i].Key < items[j].Key
		}
		return items[i].Total > items[j].Total
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}

// MaxTotal returns the largest total in m, or 0 for an empty map.
func MaxTotal[K cmp.Ordered, S any](m Map[K, S], total func(*S) int) int {
	maxVal := 0
	for _, s := range m {
		if t := total(s); t > maxVal {
			maxVal = t
		}
	}
	return maxVal
}

// AgeTotal returns s.Total.
func AgeTotal(s *AgeStats) int { return s.Total }

// RaceTotal returns s.Total.
func RaceTotal(s *RaceStats) int { return s.Total }

// CompositeTotal returns s.Total.
func CompositeTotal(s *CompositeStats) int { return s.Total }
