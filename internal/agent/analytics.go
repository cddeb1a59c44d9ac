package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/model"
)

const hoursPerDay = 1.5 // estimated study time per completed day

// styleRules classify a coarse learning style from the session counters.
// First matching rule wins; Style is the locale message id.
var styleRules = []struct {
	Style string
	Check func(s *model.SessionState) bool
}{
	{"style_explorer", func(s *model.SessionState) bool {
		return s.QuestionsAsked > s.QuizzesTaken*2 && s.QuestionsAsked >= 5
	}},
	{"style_assessment", func(s *model.SessionState) bool {
		return s.QuizzesTaken > len(s.CompletedDays)
	}},
	{"style_performer", func(s *model.SessionState) bool {
		return s.QuizzesTaken >= 2 && s.AverageQuizScore >= 80
	}},
	{"style_steady", func(s *model.SessionState) bool {
		return len(s.CompletedDays) >= 1
	}},
}

// Analytics reports session counters and a learning style classification.
// Purely local, no external calls.
type Analytics struct{}

func (h *Analytics) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	var b strings.Builder
	b.WriteString(i18n.T(ctx, "analytics_header"))
	b.WriteString("\n\n")
	b.WriteString(i18n.Td(ctx, "analytics_days", map[string]any{"Count": len(state.CompletedDays)}) + "\n")
	b.WriteString(i18n.Td(ctx, "analytics_quizzes", map[string]any{"Count": state.QuizzesTaken}) + "\n")
	if state.QuizzesTaken > 0 {
		b.WriteString(i18n.Td(ctx, "analytics_avg", map[string]any{
			"Average": fmt.Sprintf("%.0f", state.AverageQuizScore),
		}) + "\n")
		b.WriteString(i18n.Td(ctx, "analytics_last", map[string]any{"Score": state.LastQuizScore}) + "\n")
	}
	b.WriteString(i18n.Td(ctx, "analytics_questions", map[string]any{"Count": state.QuestionsAsked}) + "\n")
	b.WriteString(i18n.Td(ctx, "analytics_hours", map[string]any{
		"Hours": fmt.Sprintf("%.1f", float64(len(state.CompletedDays))*hoursPerDay),
	}) + "\n")

	b.WriteString("\n")
	b.WriteString(i18n.T(ctx, learningStyle(state)))

	if state.QuizzesTaken == 0 {
		b.WriteString("\n\n")
		b.WriteString(i18n.T(ctx, "analytics_quiz_tip"))
	}
	return model.Delta{Reply: b.String()}
}

// learningStyle returns the message id of the first matching style rule.
func learningStyle(state *model.SessionState) string {
	for _, rule := range styleRules {
		if rule.Check(state) {
			return rule.Style
		}
	}
	return "style_new"
}
