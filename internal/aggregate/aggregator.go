package aggregate

import (
	"errors"
	"io"

	"github.com/verte-zerg/fatalstats/internal/model"
)

// UnknownState is the key used for records without a state.
const UnknownState = ""

// RecordSource yields records until it returns io.EOF.
type RecordSource interface {
	Next() (model.Record, error)
}

// Aggregator owns the per-race, per-year and per-state summaries.
type Aggregator struct {
	ByRace  *Aggregation[model.Race, AgeStats]
	ByYear  *Aggregation[int, CompositeStats]
	ByState *Aggregation[string, RaceStats]

	records int
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		ByRace:  NewAggregation("race", RaceKey, IncrementAge),
		ByYear:  NewAggregation("year", YearKey, IncrementState),
		ByState: NewAggregation("state", StateKey, IncrementRace),
	}
}

// Add folds one record into every summary.
func (a *Aggregator) Add(rec model.Record) {
	a.records++
	a.ByRace.Fold(rec)
	a.ByYear.Fold(rec)
	a.ByState.Fold(rec)
}

// Consume folds every record from src. It returns the number of records
// folded and the first non-EOF error.
func (a *Aggregator) Consume(src RecordSource) (int, error) {
	n := 0
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		a.Add(rec)
		n++
	}
}

// Records returns the number of records folded.
func (a *Aggregator) Records() int {
	return a.records
}

// Skipped returns the number of records skipped by each aggregation.
func (a *Aggregator) Skipped() map[string]int {
	return map[string]int{
		a.ByRace.Name:  a.ByRace.Skipped,
		a.ByYear.Name:  a.ByYear.Skipped,
		a.ByState.Name: a.ByState.Skipped,
	}
}

// RaceKey keys by race; unknown codes already map to RaceUnknown.
func RaceKey(rec model.Record) (model.Race, bool) {
	return rec.Race, true
}

// YearKey keys by calendar year and skips records without a parseable date.
func YearKey(rec model.Record) (int, bool) {
	return rec.Year()
}

// StateKey keys by state, routing a missing state to UnknownState.
func StateKey(rec model.Record) (string, bool) {
	return rec.State, true
}

// IncrementAge counts the record age group.
func IncrementAge(s *AgeStats, rec model.Record) {
	s.AddAge(rec.AgeGroup())
}

// IncrementState counts the record state.
func IncrementState(s *CompositeStats, rec model.Record) {
	s.AddKey(rec.State)
}

// IncrementRace counts the record race.
func IncrementRace(s *RaceStats, rec model.Record) {
	s.AddRace(rec.Race)
}
