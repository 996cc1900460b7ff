package domain

import "time"

// DefaultSessionTTL is how long an analysis session lives after creation
const DefaultSessionTTL = 24 * time.Hour

// SessionState tracks where a session is in the analysis pipeline
type SessionState string

const (
	// StateUploaded - document text received, pipeline not yet run
	StateUploaded SessionState = "uploaded"

	// StateClassified - availability verdict obtained, extraction pending
	StateClassified SessionState = "classified"

	// StateNoData - classifier found no dashboard-worthy data; terminal
	StateNoData SessionState = "no_data"

	// StateExtracted - structured records obtained, config synthesis pending
	StateExtracted SessionState = "extracted"

	// StateReady - dashboard config synthesized; aggregation runs on demand
	StateReady SessionState = "ready"

	// StateFailed - a pipeline stage failed; FailedStage/FailureReason say which
	StateFailed SessionState = "failed"
)

// Session holds one upload's pipeline state and results. Keyed by an opaque id,
// expires DefaultSessionTTL after creation, swept on an hourly cadence.
type Session struct {
	ID            string               `json:"id"`
	FileName      string               `json:"file_name"`
	FileType      FileType             `json:"file_type"`
	TextLength    int                  `json:"text_length"`
	State         SessionState         `json:"state"`
	FailedStage   string               `json:"failed_stage,omitempty"`
	FailureReason string               `json:"failure_reason,omitempty"`
	Verdict       *AvailabilityVerdict `json:"verdict,omitempty"`
	Extraction    *ExtractionResult    `json:"extraction,omitempty"`
	Dashboard     *DashboardConfig     `json:"dashboard,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	ExpiresAt     time.Time            `json:"expires_at"`
}

// NewSession creates a session in the uploaded state for a document
func NewSession(id string, doc *ExtractedDocument) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		FileName:   doc.FileName,
		FileType:   doc.FileType,
		TextLength: doc.Length,
		State:      StateUploaded,
		CreatedAt:  now,
		ExpiresAt:  now.Add(DefaultSessionTTL),
	}
}

// Expired reports whether the session has passed its expiry
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Fail marks the session failed at the named stage. Failed sessions are kept
// for inspection until expiry, not retried.
func (s *Session) Fail(stage, reason string) {
	s.State = StateFailed
	s.FailedStage = stage
	s.FailureReason = reason
}

// Terminal reports whether the pipeline can no longer advance this session
func (s *Session) Terminal() bool {
	switch s.State {
	case StateNoData, StateReady, StateFailed:
		return true
	}
	return false
}
