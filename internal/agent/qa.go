package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/llm"
	"github.com/learnmate/learnmate/internal/llm/prompts"
	"github.com/learnmate/learnmate/internal/model"
)

// QA answers a free-form question in the context of the current curriculum.
type QA struct {
	gen llm.Generator
}

func (h *QA) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	question := strings.TrimSpace(state.LastUserMessage())
	if question == "" {
		return model.Delta{Reply: i18n.T(ctx, "ask_prompt")}
	}

	var topics []string
	if day := state.Day(state.CurrentDay); day != nil {
		topics = day.Topics
	}

	answer, err := h.gen.Generate(ctx, prompts.TutorSystem(state.Topic, state.SkillLevel, topics), question, 0.7)
	if err != nil {
		slog.Warn("tutor answer failed", "error", err)
		return model.Delta{Reply: i18n.T(ctx, "qa_unavailable")}
	}

	return model.Delta{
		Reply:          prompts.Sanitize(answer),
		QuestionsAsked: ptr(state.QuestionsAsked + 1),
	}
}
