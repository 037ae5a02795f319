package dialogue

import (
	"fmt"

	"github.com/asengupta/mentor/internal/assess"
	"github.com/asengupta/mentor/internal/bloom"
)

// State is the dialogue position within a tutoring session. A session
// runs Greeting -> Probing -> Assessing -> {Teaching | Deepening |
// Confirming} and loops back through Probing until the turn budget runs
// out or the learner ends it, then Closing.
type State string

const (
	StateGreeting   State = "greeting"
	StateProbing    State = "probing"
	StateAssessing  State = "assessing"
	StateTeaching   State = "teaching"
	StateDeepening  State = "deepening"
	StateConfirming State = "confirming"
	StateClosing    State = "closing"
)

// Mode is the session's teaching posture. It selects which move the
// coach makes for a given assessed signal.
type Mode string

const (
	ModeExploration Mode = "exploration"
	ModeDepthCheck  Mode = "depth_check"
	ModeTeaching    Mode = "teaching"
	ModePractice    Mode = "practice"
	ModeReflection  Mode = "reflection"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeExploration, ModeDepthCheck, ModeTeaching, ModePractice, ModeReflection:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown tutoring mode: %q", s)
}

// Move is the coach's tactical choice for one turn — a closed set, so
// transcripts stay comparable across providers and offline runs.
type Move string

const (
	MoveGreet          Move = "greet"
	MoveProbeSimpler   Move = "probe-simpler"
	MoveGuide          Move = "guide"
	MoveEscalate       Move = "escalate"
	MoveTransfer       Move = "transfer"
	MoveExplain        Move = "explain"
	MoveCheck          Move = "check"
	MoveAdvance        Move = "advance"
	MoveExtend         Move = "extend"
	MoveGround         Move = "ground"
	MoveNudge          Move = "nudge"
	MoveComplicate     Move = "complicate"
	MoveEdgeCase       Move = "edge-case"
	MoveAskConfusion   Move = "ask-confusion"
	MoveAskExample     Move = "ask-example"
	MoveAskConnections Move = "ask-connections"
	MoveTeachBack      Move = "teach-back"
	MoveClose          Move = "close"
)

// signalClass buckets an assessment into the four rows of the move table.
type signalClass int

const (
	signalStruggling signalClass = iota
	signalPartial
	signalStrong
	signalMastered
)

// classify maps an assessed signal into a table row. Misconceptions and
// low confidence both count as struggling; evaluate-or-deeper depth at
// high confidence counts as mastered.
func classify(sig assess.Signal) signalClass {
	if sig.Confidence == assess.ConfidenceLow || len(sig.Misconceptions) > 0 {
		return signalStruggling
	}
	if sig.Confidence == assess.ConfidenceHigh {
		if sig.BloomGuess >= bloom.LevelEvaluate {
			return signalMastered
		}
		return signalStrong
	}
	return signalPartial
}

// moveTable is the mode x signal policy. Exploration and depth_check
// share a column.
var moveTable = map[Mode]map[signalClass]Move{
	ModeExploration: {
		signalStruggling: MoveProbeSimpler,
		signalPartial:    MoveGuide,
		signalStrong:     MoveEscalate,
		signalMastered:   MoveTransfer,
	},
	ModeTeaching: {
		signalStruggling: MoveExplain,
		signalPartial:    MoveCheck,
		signalStrong:     MoveAdvance,
		signalMastered:   MoveExtend,
	},
	ModePractice: {
		signalStruggling: MoveGround,
		signalPartial:    MoveNudge,
		signalStrong:     MoveComplicate,
		signalMastered:   MoveEdgeCase,
	},
	ModeReflection: {
		signalStruggling: MoveAskConfusion,
		signalPartial:    MoveAskExample,
		signalStrong:     MoveAskConnections,
		signalMastered:   MoveTeachBack,
	},
}

func chooseMove(mode Mode, class signalClass) Move {
	m := mode
	if m == ModeDepthCheck {
		m = ModeExploration
	}
	if row, ok := moveTable[m]; ok {
		return row[class]
	}
	return moveTable[ModeExploration][class]
}

// stateFor is the state the session lands in after a move is chosen.
func stateFor(class signalClass) State {
	switch class {
	case signalStruggling:
		return StateTeaching
	case signalPartial:
		return StateDeepening
	case signalStrong:
		return StateDeepening
	default:
		return StateConfirming
	}
}
