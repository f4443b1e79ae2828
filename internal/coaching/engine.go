package coaching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"resume-coach/internal/domain/resume"
)

// Collaborator produces the next assistant message for a system instruction
// and a dialogue history whose last turn is the user's.
type Collaborator interface {
	NextTurn(ctx context.Context, system string, conversation []resume.Turn) (string, error)
}

// Engine drives the coaching dialogue. It is a pure function of
// (rawText, conversation): no state survives between calls, so a stubbed
// collaborator makes it fully deterministic under test.
type Engine struct {
	model Collaborator
}

func NewEngine(model Collaborator) *Engine {
	return &Engine{model: model}
}

// Next resolves the current phase, builds the phase-scoped instruction and
// asks the collaborator for one assistant turn. On any failure no turn is
// produced; the caller's conversation is untouched.
func (e *Engine) Next(ctx context.Context, rawText string, conversation []resume.Turn) (resume.Turn, error) {
	logger := slog.With("component", "coaching")

	dialogue := filterDialogue(conversation)
	if len(dialogue) == 0 || dialogue[len(dialogue)-1].Role != resume.RoleUser {
		return resume.Turn{}, fmt.Errorf("conversation must end with a user turn")
	}

	roles := ParseRoles(rawText)
	state := Resolve(roles, dialogue)
	logger.Info("coach turn",
		"phase", state.Phase.String(),
		"question", state.Question,
		"role_index", state.Role,
		"roles", len(roles),
		"turns", len(dialogue))

	reply, err := e.model.NextTurn(ctx, Instruction(rawText, roles, state), dialogue)
	if err != nil {
		logger.Error("collaborator call failed", "error", err)
		return resume.Turn{}, fmt.Errorf("coach turn failed: %w", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return resume.Turn{}, fmt.Errorf("coach turn failed: empty response")
	}

	return resume.Turn{Role: resume.RoleAssistant, Content: reply}, nil
}

// filterDialogue drops anything that is not a well-formed user or assistant
// turn before the history reaches the model.
func filterDialogue(conversation []resume.Turn) []resume.Turn {
	out := make([]resume.Turn, 0, len(conversation))
	for _, t := range conversation {
		if t.Valid() {
			out = append(out, t)
		}
	}
	return out
}
