package services

import (
	"context"
	"time"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
	"github.com/custodia-labs/insight-core/internal/core/ports/driving"
)

// Ensure sessionService implements SessionService
var _ driving.SessionService = (*sessionService)(nil)

// sessionService exposes stored analysis sessions to the routing layer
type sessionService struct {
	store driven.SessionStore
}

// NewSessionService creates a SessionService
func NewSessionService(store driven.SessionStore) driving.SessionService {
	return &sessionService{store: store}
}

// Get returns a session by id. Sessions past their expiry are reported as not
// found even if the sweep has not removed them yet.
func (s *sessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session
func (s *sessionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
