// Package bloom defines the six-level Bloom's Taxonomy scale used to
// describe a learner's demonstrated depth of understanding.
package bloom

// Level is an ordinal position on Bloom's Taxonomy.
// LevelNone sits below the scale and means "no demonstrated knowledge".
type Level int

const (
	LevelNone Level = iota
	LevelRemember
	LevelUnderstand
	LevelApply
	LevelAnalyze
	LevelEvaluate
	LevelCreate
)

// AllLevels returns the six taxonomy levels in ascending depth order,
// excluding LevelNone.
func AllLevels() []Level {
	return []Level{
		LevelRemember,
		LevelUnderstand,
		LevelApply,
		LevelAnalyze,
		LevelEvaluate,
		LevelCreate,
	}
}

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelRemember:
		return "remember"
	case LevelUnderstand:
		return "understand"
	case LevelApply:
		return "apply"
	case LevelAnalyze:
		return "analyze"
	case LevelEvaluate:
		return "evaluate"
	case LevelCreate:
		return "create"
	default:
		return "none"
	}
}

// ParseLevel maps a level name to its Level. Unknown names map to
// LevelNone so that malformed external input degrades rather than fails.
func ParseLevel(s string) Level {
	switch s {
	case "remember":
		return LevelRemember
	case "understand":
		return LevelUnderstand
	case "apply":
		return LevelApply
	case "analyze":
		return LevelAnalyze
	case "evaluate":
		return LevelEvaluate
	case "create":
		return LevelCreate
	default:
		return LevelNone
	}
}

// Max returns the deeper of two levels.
func Max(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}

// Next returns the next deeper level, capped at LevelCreate.
func (l Level) Next() Level {
	if l >= LevelCreate {
		return LevelCreate
	}
	return l + 1
}
