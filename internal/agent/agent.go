// Package agent implements the action handlers. Every handler consumes the
// session state and returns a partial state delta plus exactly one reply;
// recoverable failures (missing curriculum, generation errors, unparseable
// output) degrade to an explanatory reply and never escape as errors.
package agent

import (
	"context"

	"github.com/learnmate/learnmate/internal/content"
	"github.com/learnmate/learnmate/internal/llm"
	"github.com/learnmate/learnmate/internal/model"
)

// Handler is the shared action handler contract.
type Handler interface {
	Handle(ctx context.Context, state *model.SessionState) model.Delta
}

// Registry maps actions to their handlers.
type Registry map[model.Action]Handler

// NewRegistry wires a handler for every routable action.
func NewRegistry(gen llm.Generator, agg *content.Aggregator) Registry {
	return Registry{
		model.ActionCreateCurriculum:  &Curriculum{gen: gen},
		model.ActionConfirmCurriculum: &Confirm{},
		model.ActionShowTodos:         &Todos{gen: gen},
		model.ActionMarkComplete:      &Complete{},
		model.ActionShowProgress:      &Progress{},
		model.ActionAskQuestion:       &QA{gen: gen},
		model.ActionTakeQuiz:          &Quiz{gen: gen},
		model.ActionCheckQuiz:         &Grader{},
		model.ActionGetResources:      &Resources{agg: agg},
		model.ActionShowAnalytics:     &Analytics{},
		model.ActionUnknown:           &Fallback{},
	}
}

func ptr[T any](v T) *T {
	return &v
}
