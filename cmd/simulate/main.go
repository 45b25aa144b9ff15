// Scripted end-to-end interview run against the in-memory store and a
// canned provider. Useful for eyeballing the session loop without a
// real API key or a running server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ai-interviewer/backend/internal/interview"
	"github.com/ai-interviewer/backend/internal/llm"
	"github.com/ai-interviewer/backend/internal/service"
	"github.com/ai-interviewer/backend/internal/store"
)

type turn struct {
	question string
	answer   string
	score    int
	feedback string
}

var script = []turn{
	{
		question: "What is a goroutine?",
		answer:   "A goroutine is a lightweight thread managed by the Go runtime.",
		score:    9,
		feedback: "Complete answer, mentions the runtime scheduler.",
	},
	{
		question: "How do channels and mutexes differ for sharing state?",
		answer:   "Channels pass ownership of data, mutexes guard shared memory in place.",
		score:    7,
		feedback: "Good contrast, could mention select and buffering.",
	},
	{
		question: "Explain how the select statement behaves with multiple ready channels.",
		answer:   "It picks one at random.",
		score:    3,
		feedback: "Correct but shallow; nothing on default cases or blocking.",
	},
}

func main() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mock := llm.NewMockProvider()
	for _, t := range script {
		mock.AddResponse(llm.MockResponse{Text: t.question})
		mock.AddResponse(llm.MockResponse{
			Text: fmt.Sprintf(`{"score": %d, "feedback": %q, "correct_solution": ""}`, t.score, t.feedback),
		})
	}

	client := llm.NewWithProvider(mock, llm.DefaultRetryConfig(), logger)
	interviews := service.NewInterviewService(
		store.NewMemory(),
		client,
		interview.NewGenerator(client),
		interview.NewEvaluator(client, "English", logger),
		logger,
	)

	ctx := context.Background()

	sess, err := interviews.Start(ctx, "simulated-user", "Go Concurrency", "Junior")
	if err != nil {
		fmt.Printf("start failed: %v\n", err)
		return
	}
	fmt.Printf("Session started: %s (topic %q, difficulty %s)\n", sess.ID, sess.Topic(), sess.Difficulty)

	for i, t := range script {
		q, err := interviews.NextQuestion(ctx, sess.ID)
		if err != nil {
			fmt.Printf("question %d failed: %v\n", i+1, err)
			return
		}
		fmt.Printf("\n=== Question %d [%s] ===\n%s\n", i+1, q.Difficulty, q.Question)
		fmt.Printf("Answer: %s\n", t.answer)

		result, err := interviews.SubmitAnswer(ctx, sess.ID, q.Question, t.answer)
		if err != nil {
			fmt.Printf("answer %d failed: %v\n", i+1, err)
			return
		}
		fmt.Printf("Score: %d/10\n", result.Score)
		fmt.Printf("Feedback: %s\n", result.Feedback)
		fmt.Printf("Next difficulty: %s\n", result.NextDifficulty)

		time.Sleep(100 * time.Millisecond)
	}

	summaries, err := interviews.ListSessions(ctx, "simulated-user")
	if err != nil {
		fmt.Printf("list failed: %v\n", err)
		return
	}
	for _, s := range summaries {
		fmt.Printf("\nSummary: session %s, %d questions answered, ended at difficulty %s\n",
			s.SessionID, s.QuestionsCount, s.Difficulty)
	}
}
