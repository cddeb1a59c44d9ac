// Package router classifies the latest user message into one of the closed
// set of actions. A deterministic phrase table is consulted first; only
// unmatched input pays for a classification call.
package router

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/learnmate/learnmate/internal/llm"
	"github.com/learnmate/learnmate/internal/llm/prompts"
	"github.com/learnmate/learnmate/internal/model"
)

// PhraseEntry maps one normalized phrase to an action.
type PhraseEntry struct {
	Phrase string
	Action model.Action
}

// PhraseTable is the deterministic tier's vocabulary. An input matches when it
// equals a phrase exactly or starts with one. Plain data so tests can walk it.
var PhraseTable = []PhraseEntry{
	{"todos", model.ActionShowTodos},
	{"todo", model.ActionShowTodos},
	{"tasks", model.ActionShowTodos},
	{"show todos", model.ActionShowTodos},
	{"show tasks", model.ActionShowTodos},
	{"my todos", model.ActionShowTodos},
	{"what to do", model.ActionShowTodos},

	{"progress", model.ActionShowProgress},
	{"show progress", model.ActionShowProgress},
	{"my progress", model.ActionShowProgress},
	{"stats", model.ActionShowProgress},

	{"quiz", model.ActionTakeQuiz},
	{"quiz me", model.ActionTakeQuiz},
	{"test me", model.ActionTakeQuiz},
	{"take quiz", model.ActionTakeQuiz},

	{"resources", model.ActionGetResources},
	{"get resources", model.ActionGetResources},
	{"videos", model.ActionGetResources},
	{"tutorials", model.ActionGetResources},

	{"done", model.ActionMarkComplete},
	{"complete", model.ActionMarkComplete},
	{"finished", model.ActionMarkComplete},
	{"mark done", model.ActionMarkComplete},
	{"mark complete", model.ActionMarkComplete},

	{"analytics", model.ActionShowAnalytics},
	{"show analytics", model.ActionShowAnalytics},
	{"statistics", model.ActionShowAnalytics},

	{"yes", model.ActionConfirmCurriculum},
	{"confirm", model.ActionConfirmCurriculum},
	{"approve", model.ActionConfirmCurriculum},
	{"looks good", model.ActionConfirmCurriculum},
	{"let's start", model.ActionConfirmCurriculum},
	{"lets start", model.ActionConfirmCurriculum},
}

// Router resolves a user message to an action.
type Router struct {
	gen llm.Generator
}

// New creates a Router backed by the given generator for tier-2 classification.
func New(gen llm.Generator) *Router {
	return &Router{gen: gen}
}

// Route classifies the latest user message in the session. It never returns
// an error: classification failure of any kind resolves to ActionUnknown.
func (r *Router) Route(ctx context.Context, state *model.SessionState) model.Action {
	text := state.LastUserMessage()
	if strings.TrimSpace(text) == "" {
		return model.ActionUnknown
	}

	if action, ok := QuickMatch(text); ok {
		return action
	}

	return r.classify(ctx, text)
}

// QuickMatch is the deterministic tier: normalized exact match first, then
// phrase-is-prefix-of-input. The reverse direction (input is a prefix of a
// phrase) is deliberately not matched so that single letters fall through to
// classification instead of colliding with multi-word phrases.
func QuickMatch(text string) (model.Action, bool) {
	norm := strings.ToLower(strings.TrimSpace(text))
	for _, e := range PhraseTable {
		if norm == e.Phrase {
			return e.Action, true
		}
	}
	for _, e := range PhraseTable {
		if strings.HasPrefix(norm, e.Phrase) {
			return e.Action, true
		}
	}
	return model.ActionUnknown, false
}

func (r *Router) classify(ctx context.Context, text string) model.Action {
	raw, err := r.gen.Generate(ctx, prompts.ClassifySystem(), prompts.ClassifyUser(text), 0)
	if err != nil {
		slog.Warn("intent classification failed", "error", err)
		return model.ActionUnknown
	}
	return ResolveAction(raw)
}

// ResolveAction maps a raw classification response onto the action
// vocabulary: cleanup, exact match, containment either way in vocabulary
// order, then fuzzy rank. Anything unresolvable is ActionUnknown.
func ResolveAction(raw string) model.Action {
	cleaned := cleanResponse(raw)
	if cleaned == "" {
		return model.ActionUnknown
	}

	if model.IsValidAction(cleaned) {
		return model.Action(cleaned)
	}

	for _, a := range model.Actions {
		name := string(a)
		if strings.Contains(cleaned, name) || strings.Contains(name, cleaned) {
			return a
		}
	}

	names := make([]string, len(model.Actions))
	for i, a := range model.Actions {
		names[i] = string(a)
	}
	ranks := fuzzy.RankFindFold(cleaned, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return model.Action(ranks[0].Target)
	}

	return model.ActionUnknown
}

// cleanResponse strips quoting, punctuation and known prefix artifacts from
// a classification response.
func cleanResponse(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, "\"'`.,:;! ")
	for _, prefix := range []string{"action:", "intent:", "the action is", "classified as"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			s = strings.Trim(s, "\"'`.,:;! ")
		}
	}
	// A classifier echoing more than one line only gets its first line considered.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
