package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/llm"
	"github.com/learnmate/learnmate/internal/llm/prompts"
	"github.com/learnmate/learnmate/internal/model"
	"github.com/learnmate/learnmate/internal/parse"
)

// Todos breaks the current day's topics into a short actionable task list.
type Todos struct {
	gen llm.Generator
}

func (h *Todos) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	if len(state.Curriculum) == 0 {
		return model.Delta{Reply: i18n.T(ctx, "no_curriculum")}
	}
	if state.CurrentDay > len(state.Curriculum) {
		return model.Delta{Reply: i18n.Td(ctx, "course_complete", map[string]any{
			"Total": len(state.Curriculum),
		})}
	}

	day := state.Day(state.CurrentDay)
	if day == nil {
		// day numbers are contiguous 1..N, so this only happens on a
		// corrupted checkpoint; treat it like a missing curriculum
		return model.Delta{Reply: i18n.T(ctx, "no_curriculum")}
	}

	tasks := h.tasksFor(ctx, state, *day)

	var b strings.Builder
	b.WriteString(i18n.Td(ctx, "todos_header", map[string]any{
		"Day":   day.DayNumber,
		"Title": day.Title,
	}))
	b.WriteString("\n\n")
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	b.WriteString("\n")
	b.WriteString(i18n.T(ctx, "todos_done_hint"))

	return model.Delta{
		Reply:        b.String(),
		PendingTodos: &tasks,
	}
}

// tasksFor asks the generation service for 5-7 tasks and falls back to one
// task per topic, so the list is never empty for a valid day.
func (h *Todos) tasksFor(ctx context.Context, state *model.SessionState, day model.DayPlan) []string {
	raw, err := h.gen.Generate(ctx, prompts.TasksSystem(state.Topic, state.SkillLevel, day), "List today's tasks.", 0.7)
	if err == nil {
		if tasks := parse.TaskLines(raw); len(tasks) > 0 {
			return tasks
		}
		err = fmt.Errorf("no task lines in output")
	}
	slog.Warn("task generation failed, deriving tasks from topics",
		"day", day.DayNumber, "error", err)

	tasks := make([]string, 0, len(day.Topics))
	for _, t := range day.Topics {
		tasks = append(tasks, "Study: "+t)
	}
	if len(tasks) == 0 {
		tasks = append(tasks, "Review: "+day.Title)
	}
	return tasks
}
