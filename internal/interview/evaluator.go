package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ai-interviewer/backend/internal/llm"
)

// DefaultFeedbackLanguage is used when no language is configured.
const DefaultFeedbackLanguage = "English"

// Scores are integers on a fixed 0..10 scale.
const (
	scoreMin = 0
	scoreMax = 10
)

// Evaluation is the structured scoring result. Only score and feedback
// are folded into the session history; the correct solution is returned
// to the caller transiently.
type Evaluation struct {
	Score           int    `json:"score"`
	Feedback        string `json:"feedback"`
	CorrectSolution string `json:"correct_solution"`
}

// evaluationSchema is the strict shape the model is asked to return.
// Output that fails this check goes through the lenient extraction path.
var evaluationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"score":            map[string]any{"type": "integer"},
		"feedback":         map[string]any{"type": "string"},
		"correct_solution": map[string]any{"type": "string"},
	},
	"required": []any{"score", "feedback"},
}

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

func compiledEvaluationSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://evaluation.json", evaluationSchema); err != nil {
			compileSchemaError = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileSchemaError = c.Compile("schema://evaluation.json")
	})
	return compiledSchema, compileSchemaError
}

// Evaluator scores free-text answers via the generation client.
// It never returns an error: every failure mode degrades to a synthetic
// Evaluation so the interview flow cannot hard-fail on the provider.
type Evaluator struct {
	client   *llm.Client
	language string
	logger   *slog.Logger
}

// NewEvaluator creates an Evaluator. An empty language selects the
// default feedback language.
func NewEvaluator(client *llm.Client, language string, logger *slog.Logger) *Evaluator {
	if language == "" {
		language = DefaultFeedbackLanguage
	}
	return &Evaluator{client: client, language: language, logger: logger}
}

// Evaluate scores the candidate's answer to the given question.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer string) Evaluation {
	if !e.client.Configured() {
		return Evaluation{
			Score:           5,
			Feedback:        "AI evaluation is not available. Your answer has been recorded. Please ensure GOOGLE_API_KEY is configured for AI-powered feedback.",
			CorrectSolution: "N/A",
		}
	}

	prompt := buildEvaluationPrompt(question, answer, e.language)

	text, err := e.client.Generate(ctx, prompt)
	if err != nil {
		return e.failureEvaluation()
	}

	return e.parseEvaluation(text)
}

// failureEvaluation maps the client's credential status to an
// explanatory synthetic result.
func (e *Evaluator) failureEvaluation() Evaluation {
	switch e.client.CredentialStatus() {
	case llm.CredentialInvalid, llm.CredentialInvalidFormat:
		return Evaluation{
			Score:           5,
			Feedback:        "API key is invalid or not authorized. Please check your GOOGLE_API_KEY. Your answer has been recorded.",
			CorrectSolution: "N/A",
		}
	case llm.CredentialNotSet:
		return Evaluation{
			Score:           5,
			Feedback:        "API key is not configured. Please set the GOOGLE_API_KEY environment variable. Your answer has been recorded.",
			CorrectSolution: "N/A",
		}
	default:
		return Evaluation{
			Score:           5,
			Feedback:        "AI service is temporarily unavailable (rate limit, quota exceeded, or service error). Your answer has been recorded. Please try again in a moment.",
			CorrectSolution: "N/A",
		}
	}
}

// parseEvaluation turns raw model output into an Evaluation.
//
// Strict first: the whole output must be JSON conforming to the
// evaluation schema. Models wrap JSON in prose often enough that a
// lenient pass follows: extract the first balanced object-like span and
// parse that. When no span exists the raw text becomes the feedback
// (truncated); when the span itself is broken the result is the fixed
// parse-error evaluation.
func (e *Evaluator) parseEvaluation(text string) Evaluation {
	if eval, ok := e.strictParse([]byte(text)); ok {
		return eval
	}

	span := extractJSON(text)
	if span == "" {
		return Evaluation{
			Score:           0,
			Feedback:        truncate(text, 200),
			CorrectSolution: "N/A",
		}
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(span), &eval); err != nil {
		e.logger.Warn("failed to parse extracted evaluation JSON", "error", err)
		return Evaluation{
			Score:           0,
			Feedback:        "Error parsing AI response.",
			CorrectSolution: "N/A",
		}
	}
	if eval.CorrectSolution == "" {
		eval.CorrectSolution = "N/A"
	}
	eval.Score = clampScore(eval.Score)
	return eval
}

// strictParse validates the raw output against the evaluation schema
// before unmarshalling. Returns ok=false when the output is anything
// other than a clean schema-conforming object.
func (e *Evaluator) strictParse(raw []byte) (Evaluation, bool) {
	schema, err := compiledEvaluationSchema()
	if err != nil {
		e.logger.Error("evaluation schema failed to compile", "error", err)
		return Evaluation{}, false
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Evaluation{}, false
	}
	if err := schema.Validate(parsed); err != nil {
		return Evaluation{}, false
	}

	var eval Evaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return Evaluation{}, false
	}
	if eval.CorrectSolution == "" {
		eval.CorrectSolution = "N/A"
	}
	eval.Score = clampScore(eval.Score)
	return eval, true
}

func clampScore(score int) int {
	if score < scoreMin {
		return scoreMin
	}
	if score > scoreMax {
		return scoreMax
	}
	return score
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func buildEvaluationPrompt(question, answer, language string) string {
	return fmt.Sprintf(`You are a Technical Interviewer.

Context:
- Question: %s
- Candidate Answer: %s

Task:
1. Compare the Candidate Answer with the technical facts.
2. Score from 0 to 10.
3. Provide feedback in the requested language: %s.

Output Format (Strict JSON):
{
    "score": 0,
    "feedback": "...",
    "correct_solution": "..."
}

IMPORTANT: Return ONLY the JSON. No markdown formatting.`,
		question, answer, language)
}

// extractJSON finds the outermost JSON object in a string.
// It handles nested braces correctly and skips braces inside quoted strings.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
