package aggregate

import (
	"cmp"
	"sort"

	"github.com/verte-zerg/fatalstats/internal/model"
)

// Map holds one summary per aggregation key.
type Map[K cmp.Ordered, S any] map[K]*S

// KeyFunc derives the aggregation key of a record. It reports false when the
// record has no usable key for the aggregation.
type KeyFunc[K cmp.Ordered] func(model.Record) (K, bool)

// IncrementFunc counts one record into s. It must bump the total and exactly
// one sub-counter by one.
type IncrementFunc[S any] func(s *S, rec model.Record)

// Fold counts rec into m under keyFn(rec), creating a zero summary for a new
// key. It reports false when the record was skipped.
func Fold[K cmp.Ordered, S any](m Map[K, S], rec model.Record, keyFn KeyFunc[K], incFn IncrementFunc[S]) bool {
	key, ok := keyFn(rec)
	if !ok {
		return false
	}
	s, ok := m[key]
	if !ok {
		s = new(S)
		m[key] = s
	}
	incFn(s, rec)
	return true
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, S any](m Map[K, S]) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Aggregation is one fold policy together with its accumulated map.
type Aggregation[K cmp.Ordered, S any] struct {
	Name      string
	Key       KeyFunc[K]
	Increment IncrementFunc[S]
	Stats     Map[K, S]
	Skipped   int
}

// NewAggregation returns an empty aggregation.
func NewAggregation[K cmp.Ordered, S any](name string, key KeyFunc[K], inc IncrementFunc[S]) *Aggregation[K, S] {
	return &Aggregation[K, S]{
		Name:      name,
		Key:       key,
		Increment: inc,
		Stats:     Map[K, S]{},
	}
}

// Fold counts one record.
func (a *Aggregation[K, S]) Fold(rec model.Record) {
	if !Fold(a.Stats, rec, a.Key, a.Increment) {
		a.Skipped++
	}
}

// Merge adds the counts of src into dst. Both maps must come from the same
// aggregation kind.
func Merge[K cmp.Ordered, S any](dst, src Map[K, S], mergeFn func(dst, src *S)) {
	for k, s := range src {
		d, ok := dst[k]
		if !ok {
			d = new(S)
			dst[k] = d
		}
		mergeFn(d, s)
	}
}

// MergeAge merges age summaries.
func MergeAge(dst, src *AgeStats) { dst.merge(src) }

// MergeRace merges race summaries.
func MergeRace(dst, src *RaceStats) { dst.merge(src) }

// MergeComposite merges composite summaries.
func MergeComposite(dst, src *CompositeStats) { dst.merge(src) }
