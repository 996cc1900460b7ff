package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrCredentialMissing indicates no model credential is configured; fatal, no fallback
	ErrCredentialMissing = errors.New("model credential missing")

	// ErrPromptTooLarge indicates a prompt exceeds the input token ceiling.
	// The gateway fails fast without a network call; the caller must reduce input.
	ErrPromptTooLarge = errors.New("prompt too large")

	// ErrRemoteRejected indicates the model endpoint answered with a non-success status
	ErrRemoteRejected = errors.New("remote rejected request")

	// ErrNetworkUnavailable indicates no response was received (connection or timeout)
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrMalformedResponse indicates a response arrived without the expected content field
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidPayload indicates no valid JSON object could be recovered from model output
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInsufficientData indicates the model responded but returned fewer records
	// than the business-rule minimum - distinct from a decode failure
	ErrInsufficientData = errors.New("insufficient data extracted")

	// Stage wrappers carrying the underlying cause
	ErrClassificationFailed  = errors.New("classification failed")
	ErrExtractionFailed      = errors.New("extraction failed")
	ErrConfigSynthesisFailed = errors.New("dashboard config synthesis failed")

	// ErrSessionNotFound indicates the session does not exist or has expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrUnsupportedFormat indicates the extraction backend cannot read the file type
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoReadableContent indicates extraction produced no usable text
	ErrNoReadableContent = errors.New("no readable content")

	// ErrTokenInvalid indicates a share token is malformed, expired, or mis-signed
	ErrTokenInvalid = errors.New("token invalid")
)

// RemoteError carries the status and message of a non-success model endpoint
// response. TokenLimit marks token/length-related rejections so callers can
// shrink input instead of treating the failure as opaque.
type RemoteError struct {
	Status     int
	Message    string
	TokenLimit bool
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote rejected request: status %d: %s", e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrRemoteRejected) match
func (e *RemoteError) Unwrap() error {
	return ErrRemoteRejected
}

// payloadExcerptLen caps how much raw model output a PayloadError carries
const payloadExcerptLen = 500

// PayloadError is a decode failure carrying an excerpt of the raw response for
// diagnostics
type PayloadError struct {
	Excerpt string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid payload: %s", e.Excerpt)
}

// Unwrap lets errors.Is(err, ErrInvalidPayload) match
func (e *PayloadError) Unwrap() error {
	return ErrInvalidPayload
}

// NewPayloadError builds a PayloadError from raw model output, truncating the
// excerpt to a diagnosable size
func NewPayloadError(raw string) *PayloadError {
	if len(raw) > payloadExcerptLen {
		raw = raw[:payloadExcerptLen]
	}
	return &PayloadError{Excerpt: raw}
}
