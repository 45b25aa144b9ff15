package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ai-interviewer/backend/internal/interview"
	"github.com/ai-interviewer/backend/internal/llm"
	"github.com/ai-interviewer/backend/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastRetry() llm.RetryConfig {
	return llm.RetryConfig{
		MaxAttempts:   3,
		RateLimitBase: time.Millisecond,
		RateLimitStep: time.Millisecond,
		TransientWait: time.Millisecond,
	}
}

// newService wires the orchestrator over the in-memory store and a
// mock provider fed with the given canned responses.
func newService(responses ...llm.MockResponse) (*InterviewService, *store.MemoryStore, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	client := llm.NewWithProvider(mock, fastRetry(), testLogger())
	logger := testLogger()

	mem := store.NewMemory()
	svc := NewInterviewService(
		mem,
		client,
		interview.NewGenerator(client),
		interview.NewEvaluator(client, "", logger),
		logger,
	)
	return svc, mem, mock
}

// newDegradedService wires the orchestrator with a client that has no
// credential at all, forcing every AI path onto its fallback.
func newDegradedService() (*InterviewService, *store.MemoryStore) {
	client := llm.New(context.Background(), llm.Config{APIKey: ""}, testLogger())
	logger := testLogger()

	mem := store.NewMemory()
	svc := NewInterviewService(
		mem,
		client,
		interview.NewGenerator(client),
		interview.NewEvaluator(client, "", logger),
		logger,
	)
	return svc, mem
}

func evalResponse(score int) llm.MockResponse {
	return llm.MockResponse{
		Text: `{"score": ` + strconv.Itoa(score) + `, "feedback": "noted", "correct_solution": "the solution"}`,
	}
}

func TestStart_CreatesEasySessionWithMetadata(t *testing.T) {
	svc, _, _ := newService()

	sess, err := svc.Start(context.Background(), "u1", "SQL", "Fresher")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.ID == "" {
		t.Error("expected session id")
	}
	if sess.Difficulty != interview.LevelEasy {
		t.Errorf("expected Easy, got %s", sess.Difficulty)
	}
	if len(sess.History) != 1 || sess.History[0].Meta == nil {
		t.Fatalf("expected metadata-only history, got %+v", sess.History)
	}
	if sess.History[0].Meta.Topic != "SQL" || sess.History[0].Meta.ExperienceLevel != "Fresher" {
		t.Errorf("unexpected metadata: %+v", sess.History[0].Meta)
	}
}

func TestStart_EachCallIsIndependent(t *testing.T) {
	svc, _, _ := newService()

	a, _ := svc.Start(context.Background(), "u1", "SQL", "Fresher")
	b, _ := svc.Start(context.Background(), "u1", "SQL", "Fresher")
	if a.ID == b.ID {
		t.Fatal("two starts must produce distinct sessions")
	}
}

func TestNextQuestion_DoesNotMutateHistory(t *testing.T) {
	svc, mem, _ := newService(
		llm.MockResponse{Text: "Question one?"},
		llm.MockResponse{Text: "Question two?"},
	)
	ctx := context.Background()

	sess, _ := svc.Start(ctx, "u1", "SQL", "Fresher")

	first, err := svc.NextQuestion(ctx, sess.ID)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if first.Question != "Question one?" || first.Difficulty != interview.LevelEasy {
		t.Errorf("unexpected result: %+v", first)
	}
	if first.Topic != "SQL" {
		t.Errorf("expected topic SQL, got %q", first.Topic)
	}

	// A second call without an intervening answer leaves stored history alone.
	if _, err := svc.NextQuestion(ctx, sess.ID); err != nil {
		t.Fatalf("second next question: %v", err)
	}

	stored, _ := mem.GetSession(ctx, sess.ID)
	if len(stored.History) != 1 {
		t.Errorf("get_question must not append history, got %d entries", len(stored.History))
	}
}

func TestSubmitAnswer_HighScoreRaisesDifficulty(t *testing.T) {
	svc, mem, _ := newService(evalResponse(9))
	ctx := context.Background()

	sess, _ := svc.Start(ctx, "u1", "SQL", "Fresher")

	result, err := svc.SubmitAnswer(ctx, sess.ID, "What is a JOIN?", "It combines rows across tables.")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 9 {
		t.Errorf("expected score 9, got %d", result.Score)
	}
	if result.NextDifficulty != interview.LevelMedium {
		t.Errorf("expected Medium, got %s", result.NextDifficulty)
	}
	if result.CorrectSolution != "the solution" {
		t.Errorf("unexpected solution: %q", result.CorrectSolution)
	}

	stored, _ := mem.GetSession(ctx, sess.ID)
	if stored.Difficulty != interview.LevelMedium {
		t.Errorf("difficulty not persisted: %s", stored.Difficulty)
	}
	if len(stored.History) != 2 {
		t.Fatalf("expected history length 2, got %d", len(stored.History))
	}
	record := stored.History[1].Answer
	if record == nil || record.Question != "What is a JOIN?" || record.Score != 9 {
		t.Errorf("unexpected answer record: %+v", record)
	}
}

func TestSubmitAnswer_LowScoreClampedAtEasy(t *testing.T) {
	svc, mem, _ := newService(evalResponse(2))
	ctx := context.Background()

	sess, _ := svc.Start(ctx, "u1", "SQL", "Fresher")

	result, err := svc.SubmitAnswer(ctx, sess.ID, "q", "a")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.NextDifficulty != interview.LevelEasy {
		t.Errorf("expected Easy (clamped), got %s", result.NextDifficulty)
	}

	stored, _ := mem.GetSession(ctx, sess.ID)
	if stored.Difficulty != interview.LevelEasy {
		t.Errorf("expected stored Easy, got %s", stored.Difficulty)
	}
}

func TestSubmitAnswer_AppendOnly(t *testing.T) {
	svc, mem, _ := newService(evalResponse(6), evalResponse(7))
	ctx := context.Background()

	sess, _ := svc.Start(ctx, "u1", "Go", "Fresher")

	svc.SubmitAnswer(ctx, sess.ID, "first question", "first answer")
	before, _ := mem.GetSession(ctx, sess.ID)

	svc.SubmitAnswer(ctx, sess.ID, "second question", "second answer")
	after, _ := mem.GetSession(ctx, sess.ID)

	if len(after.History) != len(before.History)+1 {
		t.Fatalf("submit must append exactly 1 entry: %d -> %d", len(before.History), len(after.History))
	}
	// Prior entries unchanged.
	if after.History[1].Answer.Question != "first question" {
		t.Errorf("prior entry mutated: %+v", after.History[1])
	}
}

func TestUnknownSession_NotFoundWithoutMutation(t *testing.T) {
	svc, mem, _ := newService(evalResponse(9))
	ctx := context.Background()

	if _, err := svc.NextQuestion(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, "missing", "q", "a"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	sessions, _ := mem.ListSessionsByOwner(ctx, "u1")
	if len(sessions) != 0 {
		t.Errorf("no state should have been created, got %d sessions", len(sessions))
	}
}

func TestFallback_FlowSurvivesProviderOutage(t *testing.T) {
	svc, _ := newDegradedService()
	ctx := context.Background()

	sess, err := svc.Start(ctx, "u1", "SQL", "Fresher")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	q, err := svc.NextQuestion(ctx, sess.ID)
	if err != nil {
		t.Fatalf("next question must not fail on outage: %v", err)
	}
	if !strings.Contains(q.Question, "SQL") || !strings.Contains(q.Question, "easy") {
		t.Errorf("fallback question should reference topic and difficulty: %q", q.Question)
	}

	result, err := svc.SubmitAnswer(ctx, sess.ID, q.Question, "my answer")
	if err != nil {
		t.Fatalf("submit must not fail on outage: %v", err)
	}
	if result.Score != 5 {
		t.Errorf("expected neutral score 5, got %d", result.Score)
	}
	if result.NextDifficulty != interview.LevelEasy {
		t.Errorf("neutral score keeps Easy, got %s", result.NextDifficulty)
	}
}

func TestListSessions_CountsAnsweredQuestions(t *testing.T) {
	const n = 4
	responses := make([]llm.MockResponse, n)
	for i := range responses {
		responses[i] = evalResponse(6)
	}
	svc, _, _ := newService(responses...)
	ctx := context.Background()

	sess, _ := svc.Start(ctx, "u1", "Kubernetes", "Senior")
	for i := 0; i < n; i++ {
		if _, err := svc.SubmitAnswer(ctx, sess.ID, "q", "a"); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	summaries, err := svc.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	got := summaries[0]
	if got.QuestionsCount != n {
		t.Errorf("expected %d questions, got %d", n, got.QuestionsCount)
	}
	if got.Topic != "Kubernetes" || got.SessionID != sess.ID {
		t.Errorf("unexpected summary: %+v", got)
	}
}

func TestListSessions_NewestFirst(t *testing.T) {
	svc, mem, _ := newService()
	ctx := context.Background()

	older := interview.NewSession("u1", "A", "Fresher")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := interview.NewSession("u1", "B", "Fresher")
	mem.CreateSession(ctx, older)
	mem.CreateSession(ctx, newer)

	summaries, err := svc.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].SessionID != newer.ID || summaries[1].SessionID != older.ID {
		t.Errorf("expected newest first, got %+v", summaries)
	}
}

func TestHealth_ReportsCredentialStatus(t *testing.T) {
	svc, _ := newDegradedService()

	health := svc.Health()
	if health["status"] != "ok" {
		t.Errorf("expected ok status, got %v", health["status"])
	}
	if health["api_key_status"] != string(llm.CredentialNotSet) {
		t.Errorf("expected not_set credential status, got %v", health["api_key_status"])
	}
}
