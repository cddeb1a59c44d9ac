package agent

import (
	"testing"

	"github.com/learnmate/learnmate/internal/model"
)

func TestResolveQuery(t *testing.T) {
	day1 := []model.DayPlan{{DayNumber: 1, Title: "Basics", Topics: []string{"syntax", "variables", "types"}}}

	tests := []struct {
		name string
		msg  string
		prep func(s *model.SessionState)
		want string
	}{
		{"explicit topic wins", "videos on decorators", func(s *model.SessionState) {
			s.Topic = "Python"
			s.Curriculum = day1
		}, "decorators"},
		{"current day topics", "resources", func(s *model.SessionState) {
			s.Topic = "Python"
			s.Curriculum = day1
		}, "syntax variables"},
		{"session topic", "resources", func(s *model.SessionState) {
			s.Topic = "Python"
		}, "Python"},
		{"default", "resources", func(s *model.SessionState) {}, "programming"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.NewSessionState("t1")
			tt.prep(s)
			if got := resolveQuery(tt.msg, s); got != tt.want {
				t.Errorf("resolveQuery(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}

func TestTopicFromResourceRequest(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"videos on decorators", "decorators"},
		{"repos for machine learning", "machine learning"},
		{"tell me about goroutines?", "goroutines"},
		{"resources", ""},
	}
	for _, tt := range tests {
		if got := topicFromResourceRequest(tt.in); got != tt.want {
			t.Errorf("topicFromResourceRequest(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
