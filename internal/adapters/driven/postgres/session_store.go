package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore implements driven.SessionStore using PostgreSQL. Pipeline
// artifacts (verdict, extraction, dashboard) are stored as JSONB.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save stores a session, replacing any existing row with the same ID
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	verdict, err := marshalNullable(session.Verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	extraction, err := marshalNullable(session.Extraction)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction: %w", err)
	}
	dashboard, err := marshalNullable(session.Dashboard)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard: %w", err)
	}

	query := `
		INSERT INTO sessions (id, file_name, file_type, text_length, state, failed_stage, failure_reason, verdict, extraction, dashboard, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			failed_stage = EXCLUDED.failed_stage,
			failure_reason = EXCLUDED.failure_reason,
			verdict = EXCLUDED.verdict,
			extraction = EXCLUDED.extraction,
			dashboard = EXCLUDED.dashboard,
			expires_at = EXCLUDED.expires_at
	`

	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		session.FileName,
		string(session.FileType),
		session.TextLength,
		string(session.State),
		session.FailedStage,
		session.FailureReason,
		verdict,
		extraction,
		dashboard,
		session.CreatedAt,
		session.ExpiresAt,
	)
	return err
}

// Get retrieves a session by ID
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, file_name, file_type, text_length, state, failed_stage, failure_reason, verdict, extraction, dashboard, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`

	var (
		session    domain.Session
		fileType   string
		state      string
		verdict    []byte
		extraction []byte
		dashboard  []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.FileName,
		&fileType,
		&session.TextLength,
		&state,
		&session.FailedStage,
		&session.FailureReason,
		&verdict,
		&extraction,
		&dashboard,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	session.FileType = domain.FileType(fileType)
	session.State = domain.SessionState(state)

	if err := unmarshalNullable(verdict, &session.Verdict); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	if err := unmarshalNullable(extraction, &session.Extraction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extraction: %w", err)
	}
	if err := unmarshalNullable(dashboard, &session.Dashboard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard: %w", err)
	}

	return &session, nil
}

// Delete deletes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpired removes every session whose expires_at lies before now
func (s *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// marshalNullable serializes a pointer field to JSONB, with nil mapping to
// SQL NULL
func marshalNullable(v any) ([]byte, error) {
	if v == nil || isNilPointer(v) {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalNullable fills a **T target from a JSONB column, leaving it nil
// for SQL NULL
func unmarshalNullable[T any](data []byte, target **T) error {
	if len(data) == 0 {
		return nil
	}
	value := new(T)
	if err := json.Unmarshal(data, value); err != nil {
		return err
	}
	*target = value
	return nil
}

func isNilPointer(v any) bool {
	switch p := v.(type) {
	case *domain.AvailabilityVerdict:
		return p == nil
	case *domain.ExtractionResult:
		return p == nil
	case *domain.DashboardConfig:
		return p == nil
	}
	return false
}
