package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ai-interviewer/backend/internal/llm"
)

func TestEvaluate_CleanJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: `{"score": 8, "feedback": "Solid answer.", "correct_solution": "Use an index."}`,
	})
	e := NewEvaluator(clientWith(mock), "", testLogger())

	eval := e.Evaluate(context.Background(), "How do you speed up this query?", "Add an index.")
	if eval.Score != 8 {
		t.Errorf("expected score 8, got %d", eval.Score)
	}
	if eval.Feedback != "Solid answer." {
		t.Errorf("unexpected feedback: %q", eval.Feedback)
	}
	if eval.CorrectSolution != "Use an index." {
		t.Errorf("unexpected solution: %q", eval.CorrectSolution)
	}
}

func TestEvaluate_PromptContainsLanguage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: `{"score": 5, "feedback": "ok", "correct_solution": "x"}`,
	})
	e := NewEvaluator(clientWith(mock), "French", testLogger())

	e.Evaluate(context.Background(), "q", "a")
	if !strings.Contains(mock.Prompts[0], "French") {
		t.Errorf("prompt missing language:\n%s", mock.Prompts[0])
	}
}

func TestEvaluate_NotConfigured(t *testing.T) {
	e := NewEvaluator(unconfiguredClient(), "", testLogger())

	eval := e.Evaluate(context.Background(), "q", "a")
	if eval.Score != 5 {
		t.Errorf("expected neutral score 5, got %d", eval.Score)
	}
	if !strings.Contains(eval.Feedback, "GOOGLE_API_KEY") {
		t.Errorf("feedback should name the missing configuration: %q", eval.Feedback)
	}
	if eval.CorrectSolution != "N/A" {
		t.Errorf("expected N/A solution, got %q", eval.CorrectSolution)
	}
}

func TestEvaluate_AuthFailureNamesCredential(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrAuth{Err: errors.New("401")}})
	e := NewEvaluator(clientWith(mock), "", testLogger())

	eval := e.Evaluate(context.Background(), "q", "a")
	if eval.Score != 5 {
		t.Errorf("expected score 5, got %d", eval.Score)
	}
	if !strings.Contains(eval.Feedback, "invalid") {
		t.Errorf("feedback should mention the invalid key: %q", eval.Feedback)
	}
}

func TestEvaluate_TransientFailureSuggestsRetry(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}},
		llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}},
		llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}},
	)
	e := NewEvaluator(clientWith(mock), "", testLogger())

	eval := e.Evaluate(context.Background(), "q", "a")
	if eval.Score != 5 {
		t.Errorf("expected score 5, got %d", eval.Score)
	}
	if !strings.Contains(eval.Feedback, "temporarily unavailable") {
		t.Errorf("feedback should mention temporary unavailability: %q", eval.Feedback)
	}
}

func TestEvaluate_ExtractsEmbeddedJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: "Here is my assessment:\n```json\n{\"score\": 3, \"feedback\": \"Missing the \\\"why\\\".\", \"correct_solution\": \"Explain trade-offs.\"}\n```\nGood luck!",
	})
	e := NewEvaluator(clientWith(mock), "", testLogger())

	eval := e.Evaluate(context.Background(), "q", "a")
	if eval.Score != 3 {
		t.Errorf("expected score 3 from embedded JSON, got %d", eval.Score)
	}
	if eval.Feedback != `Missing the "why".` {
		t.Errorf("unexpected feedback: %q", eval.Feedback)
	}
}

func TestEvaluate_NoJSONFallsBackToRawText(t *testing.T) {
	long := strings.Repeat("The answer shows partial understanding. ", 20)
	mock := llm.NewMockProvider(llm.MockResponse{Text: long})
	e := NewEvaluator(clientWith(mock), "", testLogger())

	eval := e.Evaluate(context.Background(), "q", "a")
	if eval.Score != 0 {
		t.Errorf("expected score 0, got %d", eval.Score)
	}
	if len([]rune(eval.Feedback)) != 200 {
		t.Errorf("expected feedback truncated to 200 chars, got %d", len([]rune(eval.Feedback)))
	}
	if eval.CorrectSolution != "N/A" {
		t.Errorf("expected N/A solution, got %q", eval.CorrectSolution)
	}
}

func TestEvaluate_BrokenSpanYieldsParseError(t *testing.T) {
	// Balanced braces but not an Evaluation: score has the wrong type.
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: `prefix {"score": "eight", "feedback": "x"} suffix`,
	})
	e := NewEvaluator(clientWith(mock), "", testLogger())

	eval := e.Evaluate(context.Background(), "q", "a")
	if eval.Score != 0 {
		t.Errorf("expected score 0, got %d", eval.Score)
	}
	if eval.Feedback != "Error parsing AI response." {
		t.Errorf("unexpected feedback: %q", eval.Feedback)
	}
}

func TestEvaluate_ClampsScore(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text: `{"score": 42, "feedback": "overshoot", "correct_solution": "x"}`,
	})
	e := NewEvaluator(clientWith(mock), "", testLogger())

	eval := e.Evaluate(context.Background(), "q", "a")
	if eval.Score != 10 {
		t.Errorf("expected score clamped to 10, got %d", eval.Score)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"surrounded", `text {"a":{"b":2}} more`, `{"a":{"b":2}}`},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`},
		{"escaped quote", `{"a":"\"}"}`, `{"a":"\"}"}`},
		{"no object", "plain text", ""},
		{"unbalanced", `{"a":1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
