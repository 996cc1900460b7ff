package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// SessionStore handles analysis session persistence. Backends must be safe
// under concurrent per-key reads and writes; no lock may be held across I/O.
type SessionStore interface {
	// Save stores a session, replacing any existing entry with the same ID
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID. Returns domain.ErrSessionNotFound for
	// missing or expired sessions.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all sessions whose expiry precedes now and
	// returns how many were removed. Called by the hourly sweep.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
