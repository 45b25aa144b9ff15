// internal/api/router.go
package api

import "net/http"

// RegisterRoutes attaches all interview endpoints to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Interviews
	mux.HandleFunc("POST /interviews", h.startInterview)
	mux.HandleFunc("GET /interviews/{sessionID}/question", h.getQuestion)
	mux.HandleFunc("POST /interviews/{sessionID}/answers", h.submitAnswer)

	// Per-user session listing
	mux.HandleFunc("GET /users/{userID}/interviews", h.listSessions)

	// Health
	mux.HandleFunc("GET /health", h.health)
}
