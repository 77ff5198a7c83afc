// Package aggregate folds records into keyed summary statistics.
package aggregate

import "github.com/verte-zerg/fatalstats/internal/model"

// AgeStats counts records per age group.
type AgeStats struct {
	Total   int
	Buckets [model.AgeGroupCount]int
}

// AddAge counts one record in the group for age.
func (s *AgeStats) AddAge(g model.AgeGroup) {
	if g < 0 || int(g) >= model.AgeGroupCount {
		g = model.AgeUnknown
	}
	s.Total++
	s.Buckets[g]++
}

// Count returns the number of records in group g.
func (s *AgeStats) Count(g model.AgeGroup) int {
	if g < 0 || int(g) >= model.AgeGroupCount {
		return 0
	}
	return s.Buckets[g]
}

// RaceStats counts records per race.
type RaceStats struct {
	Total  int
	Counts [model.RaceCount]int
}

// AddRace counts one record for race r.
func (s *RaceStats) AddRace(r model.Race) {
	if r < 0 || int(r) >= model.RaceCount {
		r = model.RaceUnknown
	}
	s.Total++
	s.Counts[r]++
}

// Count returns the number of records for race r.
func (s *RaceStats) Count(r model.Race) int {
	if r < 0 || int(r) >= model.RaceCount {
		return 0
	}
	return s.Counts[r]
}

// CompositeStats counts records per secondary key. The zero value is ready
// to use.
type CompositeStats struct {
	Total int
	Sub   map[string]int
}

// AddKey counts one record under key.
func (s *CompositeStats) AddKey(key string) {
	if s.Sub == nil {
		s.Sub = make(map[string]int)
	}
	s.Total++
	s.Sub[key]++
}

// Count returns the sub-count for key.
func (s *CompositeStats) Count(key string) int {
	return s.Sub[key]
}

func (s *AgeStats) merge(o *AgeStats) {
	s.Total += o.Total
	for i, n := range o.Buckets {
		s.Buckets[i] += n
	}
}

func (s *RaceStats) merge(o *RaceStats) {
	s.Total += o.Total
	for i, n := range o.Counts {
		s.Counts[i] += n
	}
}

func (s *CompositeStats) merge(o *CompositeStats) {
	if len(o.Sub) > 0 && s.Sub == nil {
		s.Sub = make(map[string]int, len(o.Sub))
	}
	s.Total += o.Total
	for k, n := range o.Sub {
		s.Sub[k] += n
	}
}
