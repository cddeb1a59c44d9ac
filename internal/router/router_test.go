package router

import (
	"context"
	"errors"
	"testing"

	"github.com/learnmate/learnmate/internal/model"
)

type stubGen struct {
	resp  string
	err   error
	calls int
}

func (s *stubGen) Generate(_ context.Context, _, _ string, _ float32) (string, error) {
	s.calls++
	return s.resp, s.err
}

func stateWith(text string) *model.SessionState {
	s := model.NewSessionState("t1")
	s.History = append(s.History, model.ChatMessage{Role: model.RoleUser, Content: text})
	return s
}

// Every phrase in the deterministic table must resolve without a single
// generation call.
func TestPhraseTableBypassesClassifier(t *testing.T) {
	for _, entry := range PhraseTable {
		gen := &stubGen{resp: "unknown"}
		r := New(gen)
		got := r.Route(context.Background(), stateWith(entry.Phrase))
		if got != entry.Action {
			t.Errorf("Route(%q) = %q, want %q", entry.Phrase, got, entry.Action)
		}
		if gen.calls != 0 {
			t.Errorf("Route(%q) invoked the classifier %d times", entry.Phrase, gen.calls)
		}
	}
}

func TestQuickMatch(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Action
		matched bool
	}{
		{"todos", model.ActionShowTodos, true},
		{"  TODOS  ", model.ActionShowTodos, true},
		{"quiz me please", model.ActionTakeQuiz, true},
		{"done with today", model.ActionMarkComplete, true},
		{"yes, looks great", model.ActionConfirmCurriculum, true},
		// Single letters and free text fall through to classification.
		{"b", model.ActionUnknown, false},
		{"how do goroutines work?", model.ActionUnknown, false},
		{"", model.ActionUnknown, false},
	}
	for _, tt := range tests {
		got, ok := QuickMatch(tt.in)
		if got != tt.want || ok != tt.matched {
			t.Errorf("QuickMatch(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.matched)
		}
	}
}

func TestRouteEmptyMessage(t *testing.T) {
	gen := &stubGen{resp: "ask_question"}
	r := New(gen)
	if got := r.Route(context.Background(), model.NewSessionState("t1")); got != model.ActionUnknown {
		t.Errorf("Route with no history = %q, want unknown", got)
	}
	if gen.calls != 0 {
		t.Errorf("classifier invoked %d times for empty history", gen.calls)
	}
}

func TestRouteClassifies(t *testing.T) {
	gen := &stubGen{resp: "ask_question"}
	r := New(gen)
	got := r.Route(context.Background(), stateWith("how do I reverse a slice?"))
	if got != model.ActionAskQuestion {
		t.Errorf("Route = %q, want ask_question", got)
	}
	if gen.calls != 1 {
		t.Errorf("classifier invoked %d times, want 1", gen.calls)
	}
}

func TestRouteClassifierFailure(t *testing.T) {
	gen := &stubGen{err: errors.New("connection refused")}
	r := New(gen)
	if got := r.Route(context.Background(), stateWith("something unclear")); got != model.ActionUnknown {
		t.Errorf("Route on classifier error = %q, want unknown", got)
	}
}

func TestResolveAction(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.Action
	}{
		{"exact", "take_quiz", model.ActionTakeQuiz},
		{"quoted", `"show_progress"`, model.ActionShowProgress},
		{"prefix artifact", "Action: mark_complete", model.ActionMarkComplete},
		{"intent artifact", "intent: get_resources.", model.ActionGetResources},
		{"embedded in sentence", "the action is create_curriculum", model.ActionCreateCurriculum},
		{"cleaned contained in name", "quiz", model.ActionTakeQuiz},
		{"multiline", "show_analytics\nbecause the user asked for stats", model.ActionShowAnalytics},
		{"case folded", "ASK_QUESTION", model.ActionAskQuestion},
		{"empty", "", model.ActionUnknown},
		{"whitespace", "   ", model.ActionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveAction(tt.raw); got != tt.want {
				t.Errorf("ResolveAction(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// Containment matching takes the first hit in vocabulary order, so "quiz"
// resolves to take_quiz, not check_quiz.
func TestResolveActionVocabularyOrder(t *testing.T) {
	if got := ResolveAction("quiz"); got != model.ActionTakeQuiz {
		t.Errorf("ResolveAction(quiz) = %q, want take_quiz", got)
	}
	if got := ResolveAction("curriculum"); got != model.ActionCreateCurriculum {
		t.Errorf("ResolveAction(curriculum) = %q, want create_curriculum", got)
	}
}
