package store

import (
	"context"
	"errors"
	"time"

	"github.com/ai-interviewer/backend/internal/interview"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store is the durable owner of session state between requests.
// Implementations provide atomic read-then-write-by-key semantics; they
// do not implement cross-request locking, so two concurrent updates of
// the same session resolve last-write-wins.
type Store interface {
	// CreateSession persists a new session, including its owner binding
	// and creation time. Those two fields are written here and only here.
	CreateSession(ctx context.Context, s *interview.Session) error

	// GetSession loads a session by id. Returns ErrNotFound when absent.
	// A stored history blob that fails to parse yields a session with an
	// empty history rather than an error.
	GetSession(ctx context.Context, id string) (*interview.Session, error)

	// UpdateSession replaces the difficulty and history of an existing
	// session. Owner and creation time are never touched. Returns
	// ErrNotFound when the session does not exist.
	UpdateSession(ctx context.Context, id string, difficulty interview.Level, history []interview.Entry) error

	// ListSessionsByOwner returns the owner's sessions ordered
	// newest-first by creation time. Rows whose history fails to parse
	// are skipped.
	ListSessionsByOwner(ctx context.Context, ownerID string) ([]*interview.Session, error)

	// PurgeBefore deletes sessions created before the cutoff and
	// reports how many were removed. Used by the retention sweeper.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)

	Close() error
}
