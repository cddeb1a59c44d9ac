// Package prompts builds the system/user prompt pairs sent to the
// generation service. Keeping the text here, away from the handlers, makes
// the structured-output contracts reviewable in one place.
package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/learnmate/learnmate/internal/model"
)

const maxUserTextRunes = 10000

// ClassifySystem is the intent-classification system prompt: the full action
// vocabulary with one-line descriptions and examples per action.
func ClassifySystem() string {
	var sb strings.Builder
	sb.WriteString("You are an intent classifier for a learning assistant.\n")
	sb.WriteString("Classify the user's message into EXACTLY ONE of these actions:\n\n")

	entries := []struct {
		action   model.Action
		desc     string
		examples string
	}{
		{model.ActionCreateCurriculum, "User wants to learn something new, start a course, create a plan",
			`"teach me Python", "I want to learn React", "start ML course"`},
		{model.ActionConfirmCurriculum, "User confirms/approves the proposed curriculum",
			`"yes", "looks good", "approve", "let's start"`},
		{model.ActionShowTodos, "User wants to see today's tasks or what to do",
			`"show my tasks", "what should I do today", "my todos"`},
		{model.ActionMarkComplete, "User finished a day and wants to mark it done",
			`"done with day 1", "completed", "finished today"`},
		{model.ActionShowProgress, "User wants to see their learning progress",
			`"show progress", "how am I doing", "my stats"`},
		{model.ActionAskQuestion, "User asks a question about their learning topic",
			`"what is a variable?", "explain OOP", "how does recursion work?"`},
		{model.ActionTakeQuiz, "User wants to test their knowledge with a quiz",
			`"quiz me", "test my knowledge", "assess me"`},
		{model.ActionCheckQuiz, "User is answering quiz questions with letters a-d",
			`"a", "b, c, a", "my answers are a b c"`},
		{model.ActionGetResources, "User wants external learning resources (videos, articles, repos)",
			`"find videos", "show tutorials", "github repos"`},
		{model.ActionShowAnalytics, "User wants detailed learning analytics",
			`"my analytics", "show statistics", "how much time spent"`},
		{model.ActionUnknown, "Message doesn't match any action", ""},
	}
	for _, e := range entries {
		sb.WriteString("- " + string(e.action) + ": " + e.desc + "\n")
		if e.examples != "" {
			sb.WriteString("  Examples: " + e.examples + "\n")
		}
	}

	sb.WriteString("\nIMPORTANT:\n")
	sb.WriteString("- If unsure, prefer ask_question for any learning-related question\n")
	sb.WriteString("- Handle typos gracefully\n")
	sb.WriteString("- Respond with ONLY the action name, nothing else\n")
	return sb.String()
}

// ClassifyUser wraps the raw message for the classification call.
func ClassifyUser(text string) string {
	return "Classify this message: " + Sanitize(text)
}

// CurriculumSystem asks for a JSON day-plan array.
func CurriculumSystem(topic string, days int, level string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are an expert curriculum designer. Create a %d-day learning plan.\n\n", days))
	sb.WriteString("REQUIREMENTS:\n")
	sb.WriteString("1. Topic: " + topic + "\n")
	sb.WriteString(fmt.Sprintf("2. Duration: %d days\n", days))
	sb.WriteString("3. Skill level: " + level + "\n\n")
	sb.WriteString("OUTPUT FORMAT (valid JSON array):\n")
	sb.WriteString(`[{"day_number": 1, "title": "Day 1: Introduction", "topics": ["topic1", "topic2"], "completed": false}]`)
	sb.WriteString("\n\nRULES:\n")
	sb.WriteString("- Each day has 2-4 specific topics\n")
	sb.WriteString("- Progress from basics to advanced\n")
	sb.WriteString("- Topics are actionable learning objectives\n")
	sb.WriteString("- Return ONLY the JSON array, no other text\n")
	return sb.String()
}

// CurriculumUser is the user half of the curriculum request.
func CurriculumUser(topic string, days int) string {
	return fmt.Sprintf("Create a %d-day curriculum for learning: %s", days, Sanitize(topic))
}

// TasksSystem asks for a bulleted daily task list.
func TasksSystem(topic, level string, day model.DayPlan) string {
	var sb strings.Builder
	sb.WriteString("Generate a detailed task list for a " + level + " learner.\n")
	sb.WriteString("Topic: " + topic + "\n")
	sb.WriteString(fmt.Sprintf("Day %d focus: %s\n", day.DayNumber, day.Title))
	sb.WriteString("Topics to cover: " + strings.Join(day.Topics, ", ") + "\n\n")
	sb.WriteString("Create 5-7 specific, actionable tasks, one per line, each starting with \"- \".\n")
	sb.WriteString("Mix reading, hands-on practice, small exercises and review.\n")
	return sb.String()
}

// TutorSystem frames the Q&A call with curriculum context.
func TutorSystem(topic, level string, currentTopics []string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful tutor teaching " + topic + " to a " + level + " learner.\n")
	if len(currentTopics) > 0 {
		sb.WriteString("Currently learning: " + strings.Join(currentTopics, ", ") + "\n")
	}
	sb.WriteString("\nGUIDELINES:\n")
	sb.WriteString("- Explain concepts clearly with examples\n")
	sb.WriteString("- Use code blocks when relevant\n")
	sb.WriteString("- Keep explanations appropriate for the " + level + " level\n")
	sb.WriteString("- If the question is unclear, ask for clarification\n")
	return sb.String()
}

// QuizSystem asks for a 5-question JSON quiz over the given topics.
func QuizSystem(level string, topics []string) string {
	var sb strings.Builder
	sb.WriteString("Create a 5-question multiple choice quiz for a " + level + " learner.\n\n")
	sb.WriteString("Topics: " + strings.Join(topics, ", ") + "\n\n")
	sb.WriteString("OUTPUT FORMAT (valid JSON array):\n")
	sb.WriteString(`[{"question": "What is ...?", "options": ["a) One", "b) Two", "c) Three", "d) Four"], "correct_answer": "a", "explanation": "Because ..."}]`)
	sb.WriteString("\n\nRULES:\n")
	sb.WriteString("- Exactly 5 questions, each with exactly 4 options labeled a) to d)\n")
	sb.WriteString("- One clearly correct answer per question\n")
	sb.WriteString("- Explanations should teach, not just state the answer\n")
	sb.WriteString("- Return ONLY valid JSON\n")
	return sb.String()
}

// QuizUser is the user half of the quiz request.
func QuizUser(topics []string) string {
	return "Create a quiz about: " + strings.Join(topics, ", ")
}

// Sanitize trims user-supplied text and truncates pathological lengths
// before it reaches a prompt.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxUserTextRunes {
		runes := []rune(text)
		text = string(runes[:maxUserTextRunes]) + "\n\n[truncated]"
	}
	return text
}
