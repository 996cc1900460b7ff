package driven

import (
	"time"
)

// ShareTokenSigner issues and validates signed read-only tokens granting
// access to a session's dashboard without the session id being guessable.
type ShareTokenSigner interface {
	// Sign creates a token for the session, valid until expiresAt
	Sign(sessionID string, expiresAt time.Time) (string, error)

	// Verify validates a token and returns the session id it grants.
	// Returns domain.ErrTokenInvalid for expired or mis-signed tokens.
	Verify(token string) (string, error)
}
