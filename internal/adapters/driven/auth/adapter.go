package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
)

// Ensure Adapter implements ShareTokenSigner
var _ driven.ShareTokenSigner = (*Adapter)(nil)

// shareClaims binds a share token to a single session
type shareClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Adapter signs and verifies dashboard share tokens as HMAC JWTs
type Adapter struct {
	secret []byte
}

// NewAdapter creates a new share token adapter with the given signing secret
func NewAdapter(secret string) *Adapter {
	return &Adapter{secret: []byte(secret)}
}

// Sign creates a share token for a session, valid until expiresAt
func (a *Adapter) Sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := shareClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify validates a share token and returns the session ID it grants access
// to. Malformed, mis-signed, and expired tokens all come back as
// ErrTokenInvalid - callers get no detail to probe with.
func (a *Adapter) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &shareClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*shareClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", domain.ErrTokenInvalid
	}

	return claims.SessionID, nil
}
