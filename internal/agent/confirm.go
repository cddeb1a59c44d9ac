package agent

import (
	"context"
	"strings"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/model"
)

// positivePhrases is the keyword set the confirmation gate scans for.
// Containment match against the normalized message, first hit wins.
var positivePhrases = []string{
	"yes", "confirm", "approve", "looks good", "look good", "perfect",
	"great", "let's start", "lets start", "let's go", "lets go",
	"start", "ok", "okay", "sure", "sounds good",
}

// Confirm gates the transition from draft curriculum to active learning.
type Confirm struct{}

func (h *Confirm) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	if len(state.Curriculum) == 0 {
		return model.Delta{Reply: i18n.T(ctx, "no_curriculum")}
	}

	msg := strings.ToLower(strings.TrimSpace(state.LastUserMessage()))
	if !containsAny(msg, positivePhrases) {
		return model.Delta{Reply: i18n.T(ctx, "curriculum_changes_prompt")}
	}

	reply := i18n.Td(ctx, "curriculum_confirmed", map[string]any{
		"Topic": state.Topic,
		"Days":  len(state.Curriculum),
	})
	if first := state.Day(1); first != nil {
		reply += "\n\n" + i18n.Td(ctx, "confirm_first_day", map[string]any{"Title": first.Title})
	}
	return model.Delta{
		Reply:               reply,
		CurriculumConfirmed: ptr(true),
		CurrentDay:          ptr(1),
	}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
