package dialogue

import (
	"fmt"
	"strings"
)

// Deterministic coach lines used whenever the LLM is unavailable or
// fails mid-session. Every move has one, so a session can run start to
// finish fully offline.

func fallbackGreeting(mode Mode, conceptName, description string) string {
	switch mode {
	case ModeDepthCheck:
		return fmt.Sprintf("Tell me what you understand about %s in your own words.", conceptName)
	case ModeTeaching:
		if description != "" {
			return fmt.Sprintf("Let me walk you through %s. %s What do you already know about it?", conceptName, description)
		}
		return fmt.Sprintf("Let me walk you through %s. What do you already know about it?", conceptName)
	case ModePractice:
		return fmt.Sprintf("Let's practice applying %s. Ready for a scenario?", conceptName)
	case ModeReflection:
		return fmt.Sprintf("Let's reflect on %s. What stood out to you while learning it?", conceptName)
	default:
		return fmt.Sprintf("Let's explore %s together! What do you already know about this topic?", conceptName)
	}
}

var fallbackLines = map[Move]string{
	MoveProbeSimpler:   "Let's take a step back. In the simplest terms, what is %s for?",
	MoveGuide:          "You're on the right track. What do you think happens next, and why?",
	MoveEscalate:       "Good. Now, how would you use %s to solve a problem you haven't seen before?",
	MoveTransfer:       "Impressive. Where else, outside this topic, could the idea behind %s apply?",
	MoveExplain:        "Let me clarify: the key idea of %s is easier than it looks. Which part feels least clear?",
	MoveCheck:          "Quick check: can you say that back in one sentence?",
	MoveAdvance:        "You've got this part. Let's move to the next piece of %s.",
	MoveExtend:         "You clearly know %s. Here's a challenge: what would break if its main assumption didn't hold?",
	MoveGround:         "Let's make it concrete. Imagine a small real example of %s - walk me through it.",
	MoveNudge:          "Close. There's one step missing between what you said and the answer. What could it be?",
	MoveComplicate:     "Nice. Now add a constraint: how does your approach change under pressure?",
	MoveEdgeCase:       "Strong work. What happens at the edges - the empty case, the huge case?",
	MoveAskConfusion:   "That's okay. Which part of %s felt most confusing?",
	MoveAskExample:     "Can you give me one specific example from your own experience?",
	MoveAskConnections: "How does %s connect to other things you know?",
	MoveTeachBack:      "You know this well. Teach it back to me as if I'd never heard of %s.",
	MoveClose:          "Great session. Let's stop here and pick this up next time.",
}

func fallbackLine(move Move, conceptName string) string {
	line, ok := fallbackLines[move]
	if !ok {
		return "That's interesting! Can you explain more about your thinking?"
	}
	if !strings.Contains(line, "%s") {
		return line
	}
	return fmt.Sprintf(line, conceptName)
}
