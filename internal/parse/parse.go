// Package parse turns semi-structured generation output into typed values.
// Every function here is best-effort: callers get a value or an error they
// translate into their own fallback, never a panic.
package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/learnmate/learnmate/internal/model"
)

var answerLetterRegex = regexp.MustCompile(`(?i)\b[a-d]\b`)

// ExtractJSON returns the JSON payload of a response that may wrap it in a
// fenced code block. Plain responses pass through trimmed.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		return strings.TrimSpace(s)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		return strings.TrimSpace(s)
	}
	return s
}

// DayPlans parses a generated curriculum. Day numbers are renumbered to the
// contiguous 1..N sequence and the completed flag is forced false regardless
// of what the generation claims.
func DayPlans(raw string) ([]model.DayPlan, error) {
	var days []model.DayPlan
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &days); err != nil {
		return nil, fmt.Errorf("parse day plans: %w", err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("parse day plans: empty array")
	}
	for i := range days {
		days[i].DayNumber = i + 1
		days[i].Completed = false
		if len(days[i].Topics) == 0 {
			days[i].Topics = []string{days[i].Title}
		}
	}
	return days, nil
}

// TaskLines extracts bulleted or numbered task lines from free text.
// Returns nil when nothing parseable is found.
func TaskLines(raw string) []string {
	var tasks []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !isTaskLine(line) {
			continue
		}
		clean := strings.TrimSpace(strings.TrimLeft(line, "□-*•0123456789.) "))
		if clean != "" {
			tasks = append(tasks, clean)
		}
	}
	return tasks
}

func isTaskLine(line string) bool {
	switch line[0] {
	case '-', '*':
		return true
	}
	if strings.HasPrefix(line, "□") || strings.HasPrefix(line, "•") {
		return true
	}
	// Numbered lists: "1. ..." or "2) ...".
	if line[0] >= '0' && line[0] <= '9' {
		return strings.ContainsAny(line, ".)")
	}
	return false
}

// QuizQuestions parses a generated quiz. Questions missing exactly four
// options or a valid a-d correct answer are rejected wholesale so the caller
// falls back rather than issuing a broken quiz.
func QuizQuestions(raw string) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &questions); err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("parse quiz: empty array")
	}
	for i := range questions {
		q := &questions[i]
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("parse quiz: question %d has %d options, want 4", i+1, len(q.Options))
		}
		q.CorrectAnswer = strings.ToLower(strings.TrimSpace(q.CorrectAnswer))
		if len(q.CorrectAnswer) != 1 || q.CorrectAnswer[0] < 'a' || q.CorrectAnswer[0] > 'd' {
			return nil, fmt.Errorf("parse quiz: question %d has invalid correct answer %q", i+1, q.CorrectAnswer)
		}
	}
	return questions, nil
}

// AnswerLetters extracts standalone a-d tokens from a response, in order,
// lowercased. Letters embedded in words do not count as answers.
func AnswerLetters(s string) []string {
	matches := answerLetterRegex.FindAllString(s, -1)
	for i, m := range matches {
		matches[i] = strings.ToLower(m)
	}
	return matches
}
