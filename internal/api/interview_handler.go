package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/ai-interviewer/backend/internal/interview"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartInterviewRequest struct {
	UserID          string `json:"user_id" example:"u1"`
	Topic           string `json:"topic,omitempty" example:"SQL"`
	ExperienceLevel string `json:"experience_level,omitempty" example:"Fresher"`
}

func (r *StartInterviewRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}

type StartInterviewResponse struct {
	SessionID string `json:"session_id" example:"7cf1a2d4-9b3e-4f6a-8c1d-2e5b7a9f0c3d"`
	Message   string `json:"message" example:"Interview Started"`
}

type QuestionResponse struct {
	Question   string            `json:"question" example:"What is a JOIN?"`
	Difficulty string            `json:"difficulty" example:"Easy"`
	Topic      string            `json:"topic" example:"SQL"`
	History    []interview.Entry `json:"history"`
}

type SubmitAnswerRequest struct {
	QuestionText string `json:"question_text" example:"What is a JOIN?"`
	Answer       string `json:"answer" example:"It combines rows from two tables."`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r.QuestionText == "" {
		return errors.New("question_text is required")
	}
	return nil
}

type SubmitAnswerResponse struct {
	Score           int    `json:"score" example:"7"`
	Feedback        string `json:"feedback" example:"Good, but mention outer joins."`
	NextDifficulty  string `json:"next_difficulty" example:"Easy"`
	CorrectSolution string `json:"correct_solution"`
}

type SessionSummaryResponse struct {
	SessionID      string    `json:"session_id" example:"7cf1a2d4-9b3e-4f6a-8c1d-2e5b7a9f0c3d"`
	Topic          string    `json:"topic" example:"SQL"`
	CreatedAt      time.Time `json:"created_at"`
	QuestionsCount int       `json:"questions_count" example:"3"`
	Difficulty     string    `json:"difficulty" example:"Medium"`
}

type ListSessionsResponse struct {
	Sessions []SessionSummaryResponse `json:"sessions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// startInterview creates a new interview session.
// @Summary      Start an interview
// @Description  Create a new interview session for a user on the given topic. The session starts at Easy difficulty.
// @Tags         Interviews
// @Accept       json
// @Produce      json
// @Param        body  body      StartInterviewRequest  true  "Interview to start"
// @Success      201   {object}  StartInterviewResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /interviews [post]
func (h *Handler) startInterview(w http.ResponseWriter, r *http.Request) {
	var req StartInterviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.interviews.Start(r.Context(), req.UserID, req.Topic, req.ExperienceLevel)
	if err != nil {
		h.logger.Error("failed to start session", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	respondJSON(w, http.StatusCreated, StartInterviewResponse{
		SessionID: sess.ID,
		Message:   "Interview Started",
	})
}

// getQuestion serves the next question for a session.
// @Summary      Get the next question
// @Description  Generate the next interview question for the session. Serving a question does not modify the session.
// @Tags         Interviews
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  QuestionResponse
// @Failure      404        {object}  map[string]string  "session not found"
// @Router       /interviews/{sessionID}/question [get]
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	result, err := h.interviews.NextQuestion(r.Context(), sessionID)
	if h.handleStoreError(w, err, "session") {
		return
	}

	respondJSON(w, http.StatusOK, QuestionResponse{
		Question:   result.Question,
		Difficulty: string(result.Difficulty),
		Topic:      result.Topic,
		History:    result.History,
	})
}

// submitAnswer scores an answer and advances the session.
// @Summary      Submit an answer
// @Description  Score the candidate's answer, append it to the session history and adapt the difficulty.
// @Tags         Interviews
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string               true  "Session ID"
// @Param        body       body      SubmitAnswerRequest  true  "Answer to score"
// @Success      200        {object}  SubmitAnswerResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string  "session not found"
// @Router       /interviews/{sessionID}/answers [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.interviews.SubmitAnswer(r.Context(), sessionID, req.QuestionText, req.Answer)
	if h.handleStoreError(w, err, "session") {
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Score:           result.Score,
		Feedback:        result.Feedback,
		NextDifficulty:  string(result.NextDifficulty),
		CorrectSolution: result.CorrectSolution,
	})
}

// listSessions returns all past interviews for a user.
// @Summary      List a user's interviews
// @Description  Return summaries of the user's sessions, newest first.
// @Tags         Interviews
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  ListSessionsResponse
// @Failure      500     {object}  map[string]string
// @Router       /users/{userID}/interviews [get]
func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	summaries, err := h.interviews.ListSessions(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	sessions := make([]SessionSummaryResponse, len(summaries))
	for i, s := range summaries {
		sessions[i] = SessionSummaryResponse{
			SessionID:      s.SessionID,
			Topic:          s.Topic,
			CreatedAt:      s.CreatedAt,
			QuestionsCount: s.QuestionsCount,
			Difficulty:     string(s.Difficulty),
		}
	}

	respondJSON(w, http.StatusOK, ListSessionsResponse{Sessions: sessions})
}

// health reports component and credential status.
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.interviews.Health())
}
