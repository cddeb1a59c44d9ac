package agent

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/model"
	"github.com/learnmate/learnmate/internal/parse"
)

// Grader scores a submitted quiz. Grading is all-or-nothing: unless an
// answer letter was found for every question, no state changes at all.
type Grader struct{}

func (h *Grader) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	if len(state.ActiveQuiz) == 0 {
		return model.Delta{Reply: i18n.T(ctx, "no_active_quiz")}
	}

	answers := parse.AnswerLetters(state.LastUserMessage())
	if len(answers) < len(state.ActiveQuiz) {
		return model.Delta{Reply: i18n.Td(ctx, "quiz_need_answers", map[string]any{
			"Found": len(answers),
			"Want":  len(state.ActiveQuiz),
		})}
	}

	correct := 0
	var b strings.Builder
	for i, q := range state.ActiveQuiz {
		got := answers[i]
		if got == strings.ToLower(q.CorrectAnswer) {
			correct++
			b.WriteString(i18n.Td(ctx, "grade_correct", map[string]any{
				"Num":    i + 1,
				"Answer": got,
			}))
		} else {
			b.WriteString(i18n.Td(ctx, "grade_incorrect", map[string]any{
				"Num":  i + 1,
				"Got":  got,
				"Want": q.CorrectAnswer,
			}))
		}
		b.WriteString("\n")
		if q.Explanation != "" {
			fmt.Fprintf(&b, "   %s\n", q.Explanation)
		}
	}

	score := int(math.Round(float64(correct) / float64(len(state.ActiveQuiz)) * 100))
	taken := state.QuizzesTaken + 1
	avg := (state.AverageQuizScore*float64(state.QuizzesTaken) + float64(score)) / float64(taken)

	header := i18n.Td(ctx, "quiz_result", map[string]any{
		"Score":   score,
		"Correct": correct,
		"Total":   len(state.ActiveQuiz),
	})

	return model.Delta{
		Reply:            header + "\n\n" + b.String(),
		ActiveQuiz:       ptr([]model.QuizQuestion{}),
		LastQuizScore:    ptr(score),
		QuizzesTaken:     ptr(taken),
		AverageQuizScore: ptr(avg),
	}
}
