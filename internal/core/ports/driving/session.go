package driving

import (
	"context"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// SessionService exposes stored analysis sessions to the routing layer
type SessionService interface {
	// Get returns a session by id, treating expired sessions as not found
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id string) error
}
