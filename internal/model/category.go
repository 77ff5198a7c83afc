package model

import "strings"

// Race is the closed set of race categories used by the dataset.
type Race int

// Race categories. RaceUnknown covers every code outside the known set.
const (
	RaceWhite Race = iota
	RaceBlack
	RaceAsian
	RaceNative
	RaceHispanic
	RaceOther
	RaceUnknown
)

// RaceCount is the number of Race values, including RaceUnknown.
const RaceCount = int(RaceUnknown) + 1

var raceCodes = [RaceCount]string{"W", "B", "A", "N", "H", "O", ""}

var raceLabels = [RaceCount]string{
	"White",
	"Black",
	"Asian",
	"Native American",
	"Hispanic",
	"Other",
	"Unknown",
}

// Races lists every race in display order, RaceUnknown last.
func Races() []Race {
	out := make([]Race, RaceCount)
	for i := range out {
		out[i] = Race(i)
	}
	return out
}

// ParseRace maps a raw code to a Race. Matching is exact after trimming
// ASCII whitespace; anything else is RaceUnknown.
func ParseRace(code string) Race {
	code = strings.Trim(code, " \t\r\n")
	switch code {
	case "W":
		return RaceWhite
	case "B":
		return RaceBlack
	case "A":
		return RaceAsian
	case "N":
		return RaceNative
	case "H":
		return RaceHispanic
	case "O":
		return RaceOther
	default:
		return RaceUnknown
	}
}

// Code returns the single-letter dataset code, or "" for RaceUnknown.
func (r Race) Code() string {
	if r < 0 || int(r) >= RaceCount {
		return ""
	}
	return raceCodes[r]
}

// Label returns the human readable race name.
func (r Race) Label() string {
	if r < 0 || int(r) >= RaceCount {
		return raceLabels[RaceUnknown]
	}
	return raceLabels[r]
}

func (r Race) String() string {
	return r.Label()
}

// AgeGroup is a closed set of age ranges.
type AgeGroup int

// Age groups. Upper bounds are inclusive.
const (
	Age0To15 AgeGroup = iota
	Age16To30
	Age31To45
	Age46To60
	Age61To75
	Age76Plus
	AgeUnknown
)

// AgeGroupCount is the number of AgeGroup values, including AgeUnknown.
const AgeGroupCount = int(AgeUnknown) + 1

var ageGroupLabels = [AgeGroupCount]string{"0-15", "16-30", "31-45", "46-60", "61-75", "75+", "Unknown"}

// AgeGroups lists every age group in ascending order, AgeUnknown last.
func AgeGroups() []AgeGroup {
	out := make([]AgeGroup, AgeGroupCount)
	for i := range out {
		out[i] = AgeGroup(i)
	}
	return out
}

// AgeGroupFor returns the bucket for an age. A missing or negative age is
// AgeUnknown.
func AgeGroupFor(age int, ok bool) AgeGroup {
	switch {
	case !ok || age < 0:
		return AgeUnknown
	case age <= 15:
		return Age0To15
	case age <= 30:
		return Age16To30
	case age <= 45:
		return Age31To45
	case age <= 60:
		return Age46To60
	case age <= 75:
		return Age61To75
	default:
		return Age76Plus
	}
}

// Label returns the display range for the group.
func (g AgeGroup) Label() string {
	if g < 0 || int(g) >= AgeGroupCount {
		return ageGroupLabels[AgeUnknown]
	}
	return ageGroupLabels[g]
}

func (g AgeGroup) String() string {
	return g.Label()
}
