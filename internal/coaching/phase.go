package coaching

import (
	"strings"

	"resume-coach/internal/domain/resume"
)

// Phase is one stage of the coaching conversation. The phase is resolved
// server-side from the stored conversation; the model is only asked to
// phrase the turn that belongs to the phase already determined here.
type Phase int

const (
	PhaseUpdateCheck Phase = iota
	PhaseAchievements
	PhaseCompletion
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdateCheck:
		return "update_check"
	case PhaseAchievements:
		return "achievements"
	case PhaseCompletion:
		return "completion"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// State is the resolved position inside the phase sequence.
type State struct {
	Phase Phase
	// Question is the next update-check question to ask, 0-based.
	// Valid only in PhaseUpdateCheck.
	Question int
	// Role is the index of the work-history entry currently being worked
	// through. Valid only in PhaseAchievements.
	Role int
}

// CompletionPhrase is the wording whose emission by the assistant signals
// that coaching is finished and finalization may be unlocked.
const CompletionPhrase = "ready to finalize your improved resume"

// transitionMarker is how the assistant announces moving to the next
// work-history entry. Counting these markers tells us which entry is
// currently under discussion.
const transitionMarker = "now let's move on to"

// IsComplete reports whether some assistant turn has emitted the
// completion phrase. Matching is case-insensitive.
func IsComplete(conversation []resume.Turn) bool {
	for _, t := range conversation {
		if t.Role != resume.RoleAssistant {
			continue
		}
		if strings.Contains(strings.ToLower(t.Content), CompletionPhrase) {
			return true
		}
	}
	return false
}

// Resolve derives the current phase from the parsed work history and the
// conversation so far. The update check occupies the first five assistant
// turns, one question each; achievement extraction then advances one role
// per transition announcement; the closing question carries the completion
// phrase and ends the sequence.
func Resolve(roles []Role, conversation []resume.Turn) State {
	if IsComplete(conversation) {
		return State{Phase: PhaseDone}
	}

	assistantTurns := 0
	transitions := 0
	for _, t := range conversation {
		if t.Role != resume.RoleAssistant {
			continue
		}
		// Update-check acknowledgments also say "move on" about the next
		// question; only turns past the update check can announce a role
		// change.
		if assistantTurns >= len(updateCheckQuestions) && strings.Contains(strings.ToLower(t.Content), transitionMarker) {
			transitions++
		}
		assistantTurns++
	}

	if assistantTurns < len(updateCheckQuestions) {
		return State{Phase: PhaseUpdateCheck, Question: assistantTurns}
	}

	if len(roles) == 0 {
		// No parseable work history: let the model work through whatever
		// experience the text describes before closing.
		return State{Phase: PhaseAchievements, Role: 0}
	}
	if transitions >= len(roles) {
		return State{Phase: PhaseCompletion}
	}
	return State{Phase: PhaseAchievements, Role: transitions}
}
