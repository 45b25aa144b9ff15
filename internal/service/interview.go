// internal/service/interview.go
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ai-interviewer/backend/internal/interview"
	"github.com/ai-interviewer/backend/internal/llm"
	"github.com/ai-interviewer/backend/internal/store"
)

// InterviewService sequences the interview session loop: it owns the
// read-modify-write cycle of a session and wires the question
// generator, evaluator and difficulty step together per request.
type InterviewService struct {
	store     store.Store
	client    *llm.Client
	questions *interview.Generator
	evaluator *interview.Evaluator
	logger    *slog.Logger
}

// NewInterviewService creates the orchestrator.
func NewInterviewService(s store.Store, client *llm.Client, questions *interview.Generator, evaluator *interview.Evaluator, logger *slog.Logger) *InterviewService {
	return &InterviewService{
		store:     s,
		client:    client,
		questions: questions,
		evaluator: evaluator,
		logger:    logger,
	}
}

// QuestionResult is the next-question response: the question plus a
// snapshot of session state. Serving a question does not mutate the
// session; nothing is persisted until the answer comes back.
type QuestionResult struct {
	Question   string
	Difficulty interview.Level
	Topic      string
	History    []interview.Entry
}

// AnswerResult is the scored-answer response.
type AnswerResult struct {
	Score           int
	Feedback        string
	NextDifficulty  interview.Level
	CorrectSolution string
}

// SessionSummary is one row of an owner's session list.
type SessionSummary struct {
	SessionID      string
	Topic          string
	CreatedAt      time.Time
	QuestionsCount int
	Difficulty     interview.Level
}

// Start creates a new session at the lowest difficulty with only the
// metadata entry in its history, persists it, and returns it. Each
// call produces a fresh independent session.
func (s *InterviewService) Start(ctx context.Context, ownerID, topic, experienceLevel string) (*interview.Session, error) {
	sess := interview.NewSession(ownerID, topic, experienceLevel)

	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("session started",
		"session_id", sess.ID,
		"topic", sess.Topic(),
		"level", sess.ExperienceLevel(),
	)
	return sess, nil
}

// NextQuestion loads the session and asks the generator for the next
// question. The session is not mutated. Returns store.ErrNotFound for
// unknown ids.
func (s *InterviewService) NextQuestion(ctx context.Context, sessionID string) (*QuestionResult, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	question := s.questions.NextQuestion(ctx, sess.Topic(), sess.Difficulty, sess.ExperienceLevel(), sess.History)

	return &QuestionResult{
		Question:   question,
		Difficulty: sess.Difficulty,
		Topic:      sess.Topic(),
		History:    sess.History,
	}, nil
}

// SubmitAnswer scores the answer, computes the next difficulty, appends
// the answer record and persists the session. Returns store.ErrNotFound
// for unknown ids. Evaluation failures never propagate: the evaluator
// always yields a usable result.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID, questionText, answer string) (*AnswerResult, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	eval := s.evaluator.Evaluate(ctx, questionText, answer)
	nextDifficulty := interview.NextLevel(sess.Difficulty, eval.Score)

	sess.AppendAnswer(questionText, answer, eval.Score, eval.Feedback)

	if err := s.store.UpdateSession(ctx, sessionID, nextDifficulty, sess.History); err != nil {
		return nil, err
	}

	s.logger.Info("answer scored",
		"session_id", sessionID,
		"score", eval.Score,
		"next_difficulty", nextDifficulty,
	)

	return &AnswerResult{
		Score:           eval.Score,
		Feedback:        eval.Feedback,
		NextDifficulty:  nextDifficulty,
		CorrectSolution: eval.CorrectSolution,
	}, nil
}

// ListSessions returns summaries of the owner's sessions, newest first.
func (s *InterviewService) ListSessions(ctx context.Context, ownerID string) ([]SessionSummary, error) {
	sessions, err := s.store.ListSessionsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, len(sessions))
	for i, sess := range sessions {
		summaries[i] = SessionSummary{
			SessionID:      sess.ID,
			Topic:          sess.Topic(),
			CreatedAt:      sess.CreatedAt,
			QuestionsCount: sess.QuestionCount(),
			Difficulty:     sess.Difficulty,
		}
	}
	return summaries, nil
}

// Health reports per-component status plus the credential status of
// the generation client.
func (s *InterviewService) Health() map[string]any {
	return map[string]any{
		"status": "ok",
		"components": map[string]string{
			"store":           "ok",
			"question_engine": "ok",
			"evaluator":       "ok",
			"difficulty":      "ok",
		},
		"api_key_status": string(s.client.CredentialStatus()),
	}
}
