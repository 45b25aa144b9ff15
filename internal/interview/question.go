package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/ai-interviewer/backend/internal/llm"
)

// historyWindow bounds how many recent entries are embedded in the
// question prompt so it doesn't grow with session length.
const historyWindow = 3

// Generator produces the next interview question for a session.
type Generator struct {
	client *llm.Client
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client *llm.Client) *Generator {
	return &Generator{client: client}
}

// NextQuestion asks the model for the next question given the topic,
// current difficulty, candidate experience level and session history.
// It never fails: any client or generation failure degrades to a
// deterministic templated question so the interview can always proceed.
func (g *Generator) NextQuestion(ctx context.Context, topic string, difficulty Level, experienceLevel string, history []Entry) string {
	if !g.client.Configured() {
		return fallbackQuestion(topic, difficulty, experienceLevel)
	}

	prompt := buildQuestionPrompt(topic, difficulty, experienceLevel, history)

	text, err := g.client.Generate(ctx, prompt)
	if err != nil {
		return fallbackQuestion(topic, difficulty, experienceLevel)
	}
	return text
}

// fallbackQuestion is the provider-independent question template.
func fallbackQuestion(topic string, difficulty Level, experienceLevel string) string {
	return fmt.Sprintf(
		"Explain the concept of %s at a %s level. What are the key aspects a %s should know?",
		topic, strings.ToLower(string(difficulty)), experienceLevel,
	)
}

func buildQuestionPrompt(topic string, difficulty Level, experienceLevel string, history []Entry) string {
	historyText := ""
	if recent := summarizeHistory(history); recent != "" {
		historyText = "Recent conversation:\n" + recent
	}

	return fmt.Sprintf(`You are a technical interviewer.
Topic: %s
Difficulty: %s
Candidate Level: %s
%s
Generate the next interview question. Keep it concise and relevant. Do not include the answer.`,
		topic, difficulty, experienceLevel, historyText)
}

// summarizeHistory renders the last historyWindow answer entries as
// question/answer/score lines. The metadata entry is skipped: topic and
// level already appear in the prompt header.
func summarizeHistory(history []Entry) string {
	var answers []*AnswerRecord
	for i := range history {
		if history[i].Answer != nil {
			answers = append(answers, history[i].Answer)
		}
	}
	if len(answers) > historyWindow {
		answers = answers[len(answers)-historyWindow:]
	}

	var b strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&b, "Q: %s\nA: %s (scored %d/10)\n", a.Question, a.Answer, a.Score)
	}
	return b.String()
}
