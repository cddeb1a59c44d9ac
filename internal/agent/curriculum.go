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

// Curriculum builds a day-by-day learning plan for the requested topic and
// leaves it unconfirmed until the user accepts it.
type Curriculum struct {
	gen llm.Generator
}

func (h *Curriculum) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	topic := strings.TrimSpace(state.Topic)
	if derived := topicFromMessage(state.LastUserMessage()); derived != "" {
		topic = derived
	}
	if topic == "" {
		topic = state.LastUserMessage()
	}
	if topic == "" {
		return model.Delta{Reply: i18n.T(ctx, "curriculum_need_topic")}
	}

	days := state.DurationDays
	if days <= 0 {
		days = 7
	}
	level := state.SkillLevel
	if level == "" {
		level = "beginner"
	}

	plan, err := h.generate(ctx, topic, days, level)
	if err != nil {
		slog.Warn("curriculum generation failed, using placeholder plan",
			"topic", topic, "error", err)
		plan = placeholderPlan(topic, days)
	}

	reply := renderPlan(ctx, topic, plan)
	return model.Delta{
		Reply:               reply,
		Topic:               ptr(topic),
		DurationDays:        ptr(days),
		Curriculum:          &plan,
		CurriculumConfirmed: ptr(false),
		CurrentDay:          ptr(1),
		CompletedDays:       ptr([]int{}),
		PendingTodos:        ptr([]string{}),
	}
}

func (h *Curriculum) generate(ctx context.Context, topic string, days int, level string) ([]model.DayPlan, error) {
	raw, err := h.gen.Generate(ctx, prompts.CurriculumSystem(topic, days, level), prompts.CurriculumUser(topic, days), 0.7)
	if err != nil {
		return nil, fmt.Errorf("generate curriculum: %w", err)
	}
	plan, err := parse.DayPlans(raw)
	if err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}
	return plan, nil
}

// topicFromMessage pulls the subject out of phrasings like "I want to learn
// Python in 5 days" or "teach me rust". Returns "" when nothing matches.
func topicFromMessage(msg string) string {
	lower := strings.ToLower(strings.TrimSpace(msg))
	for _, marker := range []string{"learn ", "learning ", "teach me ", "study ", "studying "} {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(msg[idx+len(marker):])
		for _, stop := range []string{" in ", " over ", " within ", " for "} {
			if cut := strings.Index(strings.ToLower(rest), stop); cut >= 0 {
				rest = rest[:cut]
			}
		}
		rest = strings.Trim(rest, " ?!.,")
		if rest != "" {
			return rest
		}
	}
	return ""
}

func placeholderPlan(topic string, days int) []model.DayPlan {
	plan := make([]model.DayPlan, 0, days)
	for i := 1; i <= days; i++ {
		plan = append(plan, model.DayPlan{
			DayNumber: i,
			Title:     fmt.Sprintf("Day %d: %s", i, topic),
			Topics:    []string{fmt.Sprintf("%s fundamentals, part %d", topic, i)},
		})
	}
	return plan
}

func renderPlan(ctx context.Context, topic string, plan []model.DayPlan) string {
	var b strings.Builder
	b.WriteString(i18n.Td(ctx, "curriculum_plan_header", map[string]any{
		"Days":  len(plan),
		"Topic": topic,
	}))
	b.WriteString("\n\n")
	for _, day := range plan {
		b.WriteString(i18n.Td(ctx, "day_line", map[string]any{
			"Day":   day.DayNumber,
			"Title": day.Title,
		}))
		b.WriteString("\n")
		for _, t := range day.Topics {
			fmt.Fprintf(&b, "  - %s\n", t)
		}
	}
	b.WriteString("\n")
	b.WriteString(i18n.T(ctx, "curriculum_confirm_prompt"))
	return b.String()
}
