package model

import "time"

// Action is one of the closed set of intents the router can emit.
type Action string

const (
	ActionCreateCurriculum  Action = "create_curriculum"
	ActionConfirmCurriculum Action = "confirm_curriculum"
	ActionShowTodos         Action = "show_todos"
	ActionMarkComplete      Action = "mark_complete"
	ActionShowProgress      Action = "show_progress"
	ActionAskQuestion       Action = "ask_question"
	ActionTakeQuiz          Action = "take_quiz"
	ActionCheckQuiz         Action = "check_quiz"
	ActionGetResources      Action = "get_resources"
	ActionShowAnalytics     Action = "show_analytics"
	ActionUnknown           Action = "unknown"
)

// Actions lists the full vocabulary. Order matters: the router's containment
// matching takes the first hit in this order.
var Actions = []Action{
	ActionCreateCurriculum,
	ActionConfirmCurriculum,
	ActionShowTodos,
	ActionMarkComplete,
	ActionShowProgress,
	ActionAskQuestion,
	ActionTakeQuiz,
	ActionCheckQuiz,
	ActionGetResources,
	ActionShowAnalytics,
	ActionUnknown,
}

// IsValidAction reports whether s names a known action.
func IsValidAction(s string) bool {
	for _, a := range Actions {
		if string(a) == s {
			return true
		}
	}
	return false
}

// Role represents a chat message role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single entry in a thread's conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DayPlan is one day in a learning curriculum.
type DayPlan struct {
	DayNumber int      `json:"day_number"`
	Title     string   `json:"title"`
	Topics    []string `json:"topics"`
	Completed bool     `json:"completed"`
}

// QuizQuestion is a single four-option multiple choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"` // "a) ...", "b) ...", "c) ...", "d) ..."
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Video is one external video recommendation.
type Video struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Channel     string `json:"channel"`
	Description string `json:"description,omitempty"`
}

// Repo is one external code repository recommendation.
type Repo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language,omitempty"`
}

// Summary is a reference article summary.
type Summary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url"`
}

// ContentBundle groups the most recent external resource lookups.
type ContentBundle struct {
	Videos  []Video `json:"videos"`
	Summary Summary `json:"summary"`
	Repos   []Repo  `json:"repos"`
}

// SessionState is the full state of one learning thread. A fresh state comes
// from NewSessionState; every turn updates it through Apply.
type SessionState struct {
	ThreadID            string         `json:"thread_id"`
	Topic               string         `json:"topic"`
	DurationDays        int            `json:"duration_days"`
	SkillLevel          string         `json:"skill_level"`
	Curriculum          []DayPlan      `json:"curriculum"`
	CurriculumConfirmed bool           `json:"curriculum_confirmed"`
	CurrentDay          int            `json:"current_day"`
	CompletedDays       []int          `json:"completed_days"`
	PendingTodos        []string       `json:"pending_todos"`
	ActiveQuiz          []QuizQuestion `json:"active_quiz"`
	LastQuizScore       int            `json:"last_quiz_score"`
	QuizzesTaken        int            `json:"quizzes_taken"`
	AverageQuizScore    float64        `json:"average_quiz_score"`
	QuestionsAsked      int            `json:"questions_asked"`
	Content             *ContentBundle `json:"content_recommendations,omitempty"`
	History             []ChatMessage  `json:"history"`
	PendingAction       Action         `json:"pending_action"`
}

// NewSessionState returns an empty state for a thread with default settings.
func NewSessionState(threadID string) *SessionState {
	return &SessionState{
		ThreadID:     threadID,
		DurationDays: 7,
		SkillLevel:   "beginner",
		CurrentDay:   1,
	}
}

// LastUserMessage returns the content of the most recent user message,
// or "" when there is none.
func (s *SessionState) LastUserMessage() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == RoleUser {
			return s.History[i].Content
		}
	}
	return ""
}

// Day returns the plan for the given day number, or nil.
func (s *SessionState) Day(n int) *DayPlan {
	for i := range s.Curriculum {
		if s.Curriculum[i].DayNumber == n {
			return &s.Curriculum[i]
		}
	}
	return nil
}

// DayCompleted reports whether day n is in the completed set.
func (s *SessionState) DayCompleted(n int) bool {
	for _, d := range s.CompletedDays {
		if d == n {
			return true
		}
	}
	return false
}

// Delta is a partial state update plus exactly one outgoing reply.
// Nil fields leave the corresponding state field unchanged; non-nil fields
// replace it wholesale, so a handler that must clear a slice sets a pointer
// to an empty one.
type Delta struct {
	Reply string

	Topic               *string
	DurationDays        *int
	SkillLevel          *string
	Curriculum          *[]DayPlan
	CurriculumConfirmed *bool
	CurrentDay          *int
	CompletedDays       *[]int
	PendingTodos        *[]string
	ActiveQuiz          *[]QuizQuestion
	LastQuizScore       *int
	QuizzesTaken        *int
	AverageQuizScore    *float64
	QuestionsAsked      *int
	Content             *ContentBundle
}

// Apply merges a handler delta into the state using shallow field replacement.
// Conversation history and PendingAction are owned by the dispatcher, not by
// handler deltas.
func (s *SessionState) Apply(d Delta) {
	if d.Topic != nil {
		s.Topic = *d.Topic
	}
	if d.DurationDays != nil {
		s.DurationDays = *d.DurationDays
	}
	if d.SkillLevel != nil {
		s.SkillLevel = *d.SkillLevel
	}
	if d.Curriculum != nil {
		s.Curriculum = *d.Curriculum
	}
	if d.CurriculumConfirmed != nil {
		s.CurriculumConfirmed = *d.CurriculumConfirmed
	}
	if d.CurrentDay != nil {
		s.CurrentDay = *d.CurrentDay
	}
	if d.CompletedDays != nil {
		s.CompletedDays = *d.CompletedDays
	}
	if d.PendingTodos != nil {
		s.PendingTodos = *d.PendingTodos
	}
	if d.ActiveQuiz != nil {
		s.ActiveQuiz = *d.ActiveQuiz
	}
	if d.LastQuizScore != nil {
		s.LastQuizScore = *d.LastQuizScore
	}
	if d.QuizzesTaken != nil {
		s.QuizzesTaken = *d.QuizzesTaken
	}
	if d.AverageQuizScore != nil {
		s.AverageQuizScore = *d.AverageQuizScore
	}
	if d.QuestionsAsked != nil {
		s.QuestionsAsked = *d.QuestionsAsked
	}
	if d.Content != nil {
		s.Content = d.Content
	}
}

// LogMessage is one persisted row of a thread's conversation log.
type LogMessage struct {
	ID        int64     `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Action    Action    `json:"action,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Config holds runtime parameters set via CLI flags and environment.
type Config struct {
	Addr         string
	DBPath       string
	LLMURL       string
	LLMKey       string
	LLMModel     string
	Lang         string
	DurationDays int    // default curriculum length for new threads
	SkillLevel   string // default skill level for new threads
	YouTubeKey   string // empty means curated fallbacks only
	GitHubToken  string // empty means unauthenticated (rate limited)
	MaxResults   int    // per-provider result cap
}
