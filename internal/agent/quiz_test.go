package agent

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/learnmate/learnmate/internal/model"
)

func activeQuizState(t *testing.T) *model.SessionState {
	t.Helper()
	s := twoDayState(t)
	s.ActiveQuiz = []model.QuizQuestion{
		{
			Question:      "Q1",
			Options:       []string{"a) one", "b) two", "c) three", "d) four"},
			CorrectAnswer: "b",
			Explanation:   "two is right",
		},
		{
			Question:      "Q2",
			Options:       []string{"a) x", "b) y", "c) z", "d) w"},
			CorrectAnswer: "b",
		},
	}
	return s
}

func TestQuizGeneratesFiveQuestions(t *testing.T) {
	q := `{"question":"Q","options":["a) 1","b) 2","c) 3","d) 4"],"correct_answer":"a","explanation":"e"}`
	gen := &stubGen{resp: "[" + strings.Repeat(q+",", 4) + q + "]"}
	delta := (&Quiz{gen: gen}).Handle(context.Background(), say(twoDayState(t), "quiz"))

	if delta.ActiveQuiz == nil || len(*delta.ActiveQuiz) != 5 {
		t.Fatalf("expected 5 questions, got %+v", delta.ActiveQuiz)
	}
	if !strings.Contains(delta.Reply, "1. Q") {
		t.Errorf("quiz not rendered in reply: %q", delta.Reply)
	}
}

func TestQuizFallbackSingleQuestion(t *testing.T) {
	gen := &stubGen{err: errors.New("down")}
	delta := (&Quiz{gen: gen}).Handle(context.Background(), say(twoDayState(t), "quiz"))

	if delta.ActiveQuiz == nil || len(*delta.ActiveQuiz) != 1 {
		t.Fatalf("expected 1 fallback question, got %+v", delta.ActiveQuiz)
	}
	q := (*delta.ActiveQuiz)[0]
	if len(q.Options) != 4 || q.CorrectAnswer == "" {
		t.Errorf("malformed fallback question: %+v", q)
	}
}

// A new quiz replaces any unanswered one.
func TestQuizOverwritesActiveQuiz(t *testing.T) {
	gen := &stubGen{err: errors.New("down")}
	state := activeQuizState(t)
	delta := (&Quiz{gen: gen}).Handle(context.Background(), say(state, "quiz me"))
	if delta.ActiveQuiz == nil {
		t.Fatal("expected a replacement quiz")
	}
	state.Apply(delta)
	if len(state.ActiveQuiz) != 1 {
		t.Errorf("active quiz = %d questions, want the fresh fallback", len(state.ActiveQuiz))
	}
}

func TestQuizWithoutCurriculumUsesTopic(t *testing.T) {
	gen := &stubGen{err: errors.New("down")}
	state := model.NewSessionState("t1")
	state.Topic = "Python"
	delta := (&Quiz{gen: gen}).Handle(context.Background(), say(state, "quiz"))
	if delta.ActiveQuiz == nil {
		t.Fatal("expected a quiz on the bare topic")
	}
}

func TestGraderFullScore(t *testing.T) {
	state := say(activeQuizState(t), "b, b")
	delta := (&Grader{}).Handle(context.Background(), state)

	if delta.LastQuizScore == nil || *delta.LastQuizScore != 100 {
		t.Fatalf("score = %+v, want 100", delta.LastQuizScore)
	}
	if delta.QuizzesTaken == nil || *delta.QuizzesTaken != 1 {
		t.Errorf("quizzes taken = %+v, want 1", delta.QuizzesTaken)
	}
	if delta.ActiveQuiz == nil || len(*delta.ActiveQuiz) != 0 {
		t.Error("active quiz not cleared after grading")
	}
	state.Apply(delta)
	if len(state.ActiveQuiz) != 0 {
		t.Error("state still holds a graded quiz")
	}
}

func TestGraderPartialAnswersNoMutation(t *testing.T) {
	state := say(activeQuizState(t), "b")
	delta := (&Grader{}).Handle(context.Background(), state)

	if delta.Reply == "" {
		t.Error("expected a request for complete answers")
	}
	if delta.ActiveQuiz != nil || delta.QuizzesTaken != nil || delta.AverageQuizScore != nil || delta.LastQuizScore != nil {
		t.Errorf("partial submission mutated state: %+v", delta)
	}
}

func TestGraderNoActiveQuiz(t *testing.T) {
	delta := (&Grader{}).Handle(context.Background(), say(twoDayState(t), "a b"))
	if delta.QuizzesTaken != nil {
		t.Error("grading happened without an active quiz")
	}
	if delta.Reply == "" {
		t.Error("expected an explanatory reply")
	}
}

// Running mean over scores 100 and 50 must come out at 75.
func TestGraderRunningAverage(t *testing.T) {
	state := activeQuizState(t)
	say(state, "b, b")
	state.Apply((&Grader{}).Handle(context.Background(), state))

	if math.Abs(state.AverageQuizScore-100) > 1e-9 {
		t.Fatalf("average after first quiz = %v, want 100", state.AverageQuizScore)
	}

	// Second quiz, one of two correct.
	state.ActiveQuiz = activeQuizState(t).ActiveQuiz
	say(state, "b, a")
	state.Apply((&Grader{}).Handle(context.Background(), state))

	if state.QuizzesTaken != 2 {
		t.Errorf("quizzes taken = %d, want 2", state.QuizzesTaken)
	}
	if state.LastQuizScore != 50 {
		t.Errorf("last score = %d, want 50", state.LastQuizScore)
	}
	if math.Abs(state.AverageQuizScore-75) > 1e-9 {
		t.Errorf("average = %v, want 75", state.AverageQuizScore)
	}
}

func TestGraderShowsExplanations(t *testing.T) {
	delta := (&Grader{}).Handle(context.Background(), say(activeQuizState(t), "a, b"))
	if !strings.Contains(delta.Reply, "two is right") {
		t.Errorf("explanation missing from reply: %q", delta.Reply)
	}
}
