package agent

import (
	"context"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/model"
)

// Complete marks the current day as done and advances the day pointer.
type Complete struct{}

func (h *Complete) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	if len(state.Curriculum) == 0 {
		return model.Delta{Reply: i18n.T(ctx, "no_curriculum")}
	}
	total := len(state.Curriculum)
	if state.CurrentDay > total {
		return model.Delta{Reply: i18n.Td(ctx, "course_complete", map[string]any{
			"Total": total,
		})}
	}

	done := state.CurrentDay

	completed := append([]int(nil), state.CompletedDays...)
	if !state.DayCompleted(done) {
		completed = append(completed, done)
	}

	curriculum := append([]model.DayPlan(nil), state.Curriculum...)
	for i := range curriculum {
		if curriculum[i].DayNumber == done {
			curriculum[i].Completed = true
		}
	}

	next := done + 1
	delta := model.Delta{
		Curriculum:    &curriculum,
		CurrentDay:    ptr(next),
		CompletedDays: &completed,
		PendingTodos:  ptr([]string{}),
	}

	if next > total {
		delta.Reply = i18n.Td(ctx, "course_complete", map[string]any{"Total": total})
		return delta
	}

	nextDay := state.Day(next)
	delta.Reply = i18n.Td(ctx, "day_complete", map[string]any{
		"Done":      done,
		"Completed": len(completed),
		"Total":     total,
		"Next":      next,
		"Title":     nextDay.Title,
	})
	return delta
}
