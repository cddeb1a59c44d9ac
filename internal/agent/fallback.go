package agent

import (
	"context"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/model"
)

// Fallback answers anything the router could not place, with help text
// matched to where the session currently is.
type Fallback struct{}

func (h *Fallback) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	switch {
	case len(state.Curriculum) == 0:
		return model.Delta{Reply: i18n.T(ctx, "help_no_curriculum")}
	case !state.CurriculumConfirmed:
		return model.Delta{Reply: i18n.T(ctx, "help_unconfirmed")}
	default:
		return model.Delta{Reply: i18n.T(ctx, "help_commands")}
	}
}
