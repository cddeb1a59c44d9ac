package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/learnmate/learnmate/internal/i18n"
	"github.com/learnmate/learnmate/internal/model"
)

// DayStatus is one curriculum day annotated for display.
type DayStatus struct {
	DayNumber int    `json:"day_number"`
	Title     string `json:"title"`
	Status    string `json:"status"` // "done", "current" or "pending"
}

// Report is a computed progress snapshot. It is pure derived data, shared by
// the progress handler and the REST progress endpoint.
type Report struct {
	Topic          string      `json:"topic"`
	TotalDays      int         `json:"total_days"`
	CompletedDays  int         `json:"completed_days"`
	Percent        int         `json:"percent"`
	Days           []DayStatus `json:"days"`
	QuizzesTaken   int         `json:"quizzes_taken"`
	AverageScore   float64     `json:"average_score"`
	QuestionsAsked int         `json:"questions_asked"`
	Badges         []string    `json:"badges"`
}

type badgeRule struct {
	Name  string
	Check func(r Report) bool
}

// badgeRules are the fixed achievement thresholds. Order is display order.
var badgeRules = []badgeRule{
	{"First Steps", func(r Report) bool { return r.CompletedDays >= 1 }},
	{"Halfway There", func(r Report) bool { return r.TotalDays > 0 && r.CompletedDays*2 >= r.TotalDays }},
	{"Course Champion", func(r Report) bool { return r.TotalDays > 0 && r.CompletedDays >= r.TotalDays }},
	{"Quiz Taker", func(r Report) bool { return r.QuizzesTaken >= 1 }},
	{"Quiz Master", func(r Report) bool { return r.QuizzesTaken >= 5 }},
	{"High Scorer", func(r Report) bool { return r.QuizzesTaken >= 1 && r.AverageScore >= 80 }},
	{"Curious Mind", func(r Report) bool { return r.QuestionsAsked >= 10 }},
}

// BuildReport computes the progress snapshot for a state. Deterministic:
// the same state always yields the same report.
func BuildReport(state *model.SessionState) Report {
	r := Report{
		Topic:          state.Topic,
		TotalDays:      len(state.Curriculum),
		CompletedDays:  len(state.CompletedDays),
		QuizzesTaken:   state.QuizzesTaken,
		AverageScore:   state.AverageQuizScore,
		QuestionsAsked: state.QuestionsAsked,
	}
	if r.TotalDays > 0 {
		r.Percent = r.CompletedDays * 100 / r.TotalDays
	}
	r.Days = lo.Map(state.Curriculum, func(d model.DayPlan, _ int) DayStatus {
		status := "pending"
		switch {
		case state.DayCompleted(d.DayNumber):
			status = "done"
		case d.DayNumber == state.CurrentDay:
			status = "current"
		}
		return DayStatus{DayNumber: d.DayNumber, Title: d.Title, Status: status}
	})
	r.Badges = lo.FilterMap(badgeRules, func(rule badgeRule, _ int) (string, bool) {
		return rule.Name, rule.Check(r)
	})
	return r
}

// Progress renders the progress report as chat text.
type Progress struct{}

func (h *Progress) Handle(ctx context.Context, state *model.SessionState) model.Delta {
	if len(state.Curriculum) == 0 {
		return model.Delta{Reply: i18n.T(ctx, "no_curriculum")}
	}

	r := BuildReport(state)

	var b strings.Builder
	b.WriteString(i18n.Td(ctx, "progress_header", map[string]any{
		"Topic":     r.Topic,
		"Percent":   r.Percent,
		"Completed": r.CompletedDays,
		"Total":     r.TotalDays,
	}))
	b.WriteString("\n\n")
	for _, d := range r.Days {
		marker := "[ ]"
		switch d.Status {
		case "done":
			marker = "[x]"
		case "current":
			marker = "[>]"
		}
		b.WriteString(marker + " " + i18n.Td(ctx, "day_line", map[string]any{
			"Day":   d.DayNumber,
			"Title": d.Title,
		}))
		b.WriteString("\n")
	}
	if r.QuizzesTaken > 0 {
		b.WriteString("\n" + i18n.Td(ctx, "progress_quizzes", map[string]any{
			"Count":   r.QuizzesTaken,
			"Average": fmt.Sprintf("%.0f", r.AverageScore),
		}) + "\n")
	}
	if len(r.Badges) > 0 {
		b.WriteString("\n" + i18n.Td(ctx, "progress_badges", map[string]any{
			"Badges": strings.Join(r.Badges, ", "),
		}) + "\n")
	}
	return model.Delta{Reply: b.String()}
}
