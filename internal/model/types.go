// Package model defines shared data structures.
package model

import "time"

// Record is one incident row, normalized at the input boundary.
type Record struct {
	Date   time.Time
	State  string
	Race   Race
	Age    int
	HasAge bool
}

// Year returns the calendar year of the record date. It reports false when
// the date could not be parsed.
func (r Record) Year() (int, bool) {
	if r.Date.IsZero() {
		return 0, false
	}
	return r.Date.Year(), true
}

// AgeGroup returns the bucket for the record age.
func (r Record) AgeGroup() AgeGroup {
	return AgeGroupFor(r.Age, r.HasAge)
}

// LoadConfig defines where records and update metadata come from.
type LoadConfig struct {
	Source   string
	Repo     string
	RepoPath string
	Token    string
	NoMeta   bool
	Timeout  time.Duration
}

// DisplayConfig defines rendering options shared by the CLI and the viewer.
type DisplayConfig struct {
	Top     int
	Width   int
	Color   bool
	Regions map[string]string
}
