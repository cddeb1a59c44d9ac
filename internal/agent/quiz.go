package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/llm"
	"github.com/learnmate/learnmate/internal/llm/prompts"
	"github.com/learnmate/learnmate/internal/model"
	"github.com/learnmate/learnmate/internal/parse"
)

const quizTopicWindow = 6 // most recent days to draw quiz topics from

// Quiz generates a five-question multiple choice quiz over the material
// covered so far. Issuing a new quiz discards any prior unanswered one.
type Quiz struct {
	gen llm.Generator
}

func (h *Quiz) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	topics := quizTopics(state)
	if len(topics) == 0 {
		return model.Delta{Reply: i18n.T(ctx, "no_curriculum")}
	}

	questions, err := h.generate(ctx, state.SkillLevel, topics)
	if err != nil {
		slog.Warn("quiz generation failed, using fallback question",
			"topics", topics, "error", err)
		questions = fallbackQuiz(topics)
	}

	return model.Delta{
		Reply:      renderQuiz(ctx, questions),
		ActiveQuiz: &questions,
	}
}

func (h *Quiz) generate(ctx context.Context, level string, topics []string) ([]model.QuizQuestion, error) {
	raw, err := h.gen.Generate(ctx, prompts.QuizSystem(level, topics), prompts.QuizUser(topics), 0.7)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	questions, err := parse.QuizQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	return questions, nil
}

// quizTopics collects topics from all days up to and including the current
// day, capped to the most recent quizTopicWindow days. With no curriculum the
// bare session topic is used.
func quizTopics(state *model.SessionState) []string {
	covered := lo.Filter(state.Curriculum, func(d model.DayPlan, _ int) bool {
		return d.DayNumber <= state.CurrentDay
	})
	if len(covered) > quizTopicWindow {
		covered = covered[len(covered)-quizTopicWindow:]
	}
	topics := lo.Flatten(lo.Map(covered, func(d model.DayPlan, _ int) []string {
		return d.Topics
	}))
	if len(topics) == 0 && state.Topic != "" {
		topics = []string{state.Topic}
	}
	return topics
}

func fallbackQuiz(topics []string) []model.QuizQuestion {
	topic := topics[0]
	return []model.QuizQuestion{{
		Question: fmt.Sprintf("Which of these best describes your confidence with %s so far?", topic),
		Options: []string{
			"a) I can explain it to someone else",
			"b) I can apply it with some reference material",
			"c) I recognize the concepts but need practice",
			"d) I should revisit the basics",
		},
		CorrectAnswer: "a",
		Explanation:   "A self-check question. Being able to explain a concept is the strongest signal you have learned it.",
	}}
}

func renderQuiz(ctx context.Context, questions []model.QuizQuestion) string {
	var b strings.Builder
	b.WriteString(i18n.T(ctx, "quiz_header"))
	b.WriteString("\n\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
		for _, opt := range q.Options {
			fmt.Fprintf(&b, "   %s\n", opt)
		}
		b.WriteString("\n")
	}
	b.WriteString(i18n.T(ctx, "quiz_answer_prompt"))
	return b.String()
}
