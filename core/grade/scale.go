package grade

import "fmt"

// Level is one achievement band: an inclusive percentage range mapping to a
// single-letter code. Percentages below the lowest band map to no level.
type Level struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Min  int    `json:"min_percentage"`
	Max  int    `json:"max_percentage"`
}

// The canonical scale. Bands are contiguous and non-overlapping over [40,100];
// checkScale enforces that at startup so the table stays the single source of
// truth instead of scattered comparisons.
var levels = []Level{
	{Code: "S", Name: "Threshold", Min: 40, Max: 54},
	{Code: "B", Name: "Basic", Min: 55, Max: 69},
	{Code: "P", Name: "Proficient", Min: 70, Max: 84},
	{Code: "A", Name: "Advanced", Min: 85, Max: 100},
}

func init() {
	if err := checkScale(levels); err != nil {
		panic(err)
	}
}

func checkScale(lvls []Level) error {
	if len(lvls) == 0 {
		return fmt.Errorf("achievement scale is empty")
	}
	seen := make(map[string]bool, len(lvls))
	for i, lvl := range lvls {
		if lvl.Min > lvl.Max {
			return fmt.Errorf("achievement band %s has min %d > max %d", lvl.Code, lvl.Min, lvl.Max)
		}
		if seen[lvl.Code] {
			return fmt.Errorf("duplicate achievement band code %s", lvl.Code)
		}
		seen[lvl.Code] = true
		if i > 0 && lvl.Min != lvls[i-1].Max+1 {
			return fmt.Errorf("achievement bands %s and %s leave a gap or overlap", lvls[i-1].Code, lvl.Code)
		}
	}
	if min, max := lvls[0].Min, lvls[len(lvls)-1].Max; min != 40 || max != 100 {
		return fmt.Errorf("achievement scale covers [%d,%d], want [40,100]", min, max)
	}
	return nil
}

// Levels returns the achievement scale, lowest band first.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// LevelFor returns the band whose range contains percentage; ok is false for
// percentages below the scale, above 100 or negative.
func LevelFor(percentage int) (Level, bool) {
	if percentage < levels[0].Min || percentage > levels[len(levels)-1].Max {
		return Level{}, false
	}
	for _, lvl := range levels {
		if percentage >= lvl.Min && percentage <= lvl.Max {
			return lvl, true
		}
	}
	return Level{}, false
}

// DefaultPercentageFor returns the representative percentage pre-filled when a
// caller picks a level directly instead of typing a number: the band maximum.
func DefaultPercentageFor(code string) (int, bool) {
	for _, lvl := range levels {
		if lvl.Code == code {
			return lvl.Max, true
		}
	}
	return 0, false
}
