package interview

// Level is one tier of the ordered difficulty set.
type Level string

const (
	LevelEasy   Level = "Easy"
	LevelMedium Level = "Medium"
	LevelHard   Level = "Hard"
)

// levels defines the total order used by NextLevel.
var levels = []Level{LevelEasy, LevelMedium, LevelHard}

// Score thresholds for difficulty transitions.
const (
	scoreRaise = 8
	scoreLower = 4
)

// ValidLevel reports whether l is a member of the known level set.
func ValidLevel(l Level) bool {
	for _, known := range levels {
		if l == known {
			return true
		}
	}
	return false
}

// NextLevel maps (current level, last score) to the next level.
// An unknown or corrupt level resets to Easy. Transitions are single
// step only: score >= 8 moves one tier up, score <= 4 one tier down,
// both clamped at the ends of the set. Pure, always returns a valid
// level.
func NextLevel(current Level, score int) Level {
	idx := -1
	for i, l := range levels {
		if l == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		return LevelEasy
	}

	switch {
	case score >= scoreRaise:
		if idx < len(levels)-1 {
			idx++
		}
	case score <= scoreLower:
		if idx > 0 {
			idx--
		}
	}
	return levels[idx]
}
