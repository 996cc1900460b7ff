package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// completionServer fakes an OpenAI-compatible chat completion endpoint
func completionServer(t *testing.T, hits *atomic.Int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		handler(w, r)
	}))
}

func respondContent(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	if err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func newTestCompletion(t *testing.T, baseURL string) *OpenAICompletion {
	t.Helper()
	svc, err := NewOpenAICompletion("test-key", "test-model", baseURL, domain.DefaultTokenBudget())
	if err != nil {
		t.Fatalf("failed to create completion service: %v", err)
	}
	return svc.(*OpenAICompletion)
}

func TestNewOpenAICompletion_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAICompletion("", "gpt-4o-mini", "", domain.DefaultTokenBudget())
	if !errors.Is(err, domain.ErrCredentialMissing) {
		t.Errorf("expected ErrCredentialMissing, got %v", err)
	}
}

func TestComplete_ReturnsContent(t *testing.T) {
	server := completionServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		respondContent(t, w, `{"hasData": true}`)
	})
	defer server.Close()

	svc := newTestCompletion(t, server.URL+"/v1")
	got, err := svc.Complete(context.Background(), "classify this", 500, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"hasData": true}` {
		t.Errorf("unexpected content: %q", got)
	}
	if svc.Model() != "test-model" {
		t.Errorf("unexpected model: %q", svc.Model())
	}
}

func TestComplete_RejectsOversizedPromptWithoutCalling(t *testing.T) {
	var hits atomic.Int32
	server := completionServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		respondContent(t, w, "unreachable")
	})
	defer server.Close()

	svc := newTestCompletion(t, server.URL+"/v1")

	// MaxInputTokens 12000 ~= 48000 chars at 4 chars per token
	huge := make([]byte, 60000)
	for i := range huge {
		huge[i] = 'a'
	}

	_, err := svc.Complete(context.Background(), string(huge), 500, 0.1)
	if !errors.Is(err, domain.ErrPromptTooLarge) {
		t.Fatalf("expected ErrPromptTooLarge, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("oversized prompt must fail before the network call, got %d hits", hits.Load())
	}
}

func TestComplete_RemoteRejectionCarriesStatus(t *testing.T) {
	server := completionServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit reached", "type": "rate_limit_error"}}`))
	})
	defer server.Close()

	svc := newTestCompletion(t, server.URL+"/v1")
	_, err := svc.Complete(context.Background(), "prompt", 500, 0.1)
	if !errors.Is(err, domain.ErrRemoteRejected) {
		t.Fatalf("expected ErrRemoteRejected, got %v", err)
	}

	var remoteErr *domain.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatal("expected a RemoteError")
	}
	if remoteErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", remoteErr.Status)
	}
	if remoteErr.TokenLimit {
		t.Error("a rate limit rejection is not a token limit rejection")
	}
}

func TestComplete_TokenLimitRejectionFlagged(t *testing.T) {
	server := completionServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "This model's maximum context length is 8192 tokens", "type": "invalid_request_error"}}`))
	})
	defer server.Close()

	svc := newTestCompletion(t, server.URL+"/v1")
	_, err := svc.Complete(context.Background(), "prompt", 500, 0.1)

	var remoteErr *domain.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected a RemoteError, got %v", err)
	}
	if !remoteErr.TokenLimit {
		t.Error("context length rejection should set TokenLimit")
	}
}

func TestComplete_NetworkFailure(t *testing.T) {
	server := completionServer(t, nil, func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // no listener left

	svc := newTestCompletion(t, server.URL+"/v1")
	_, err := svc.Complete(context.Background(), "prompt", 500, 0.1)
	if !errors.Is(err, domain.ErrNetworkUnavailable) {
		t.Errorf("expected ErrNetworkUnavailable, got %v", err)
	}
}

func TestComplete_EmptyChoicesIsMalformed(t *testing.T) {
	server := completionServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})
	defer server.Close()

	svc := newTestCompletion(t, server.URL+"/v1")
	_, err := svc.Complete(context.Background(), "prompt", 500, 0.1)
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestComplete_EmptyContentIsMalformed(t *testing.T) {
	server := completionServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		respondContent(t, w, "")
	})
	defer server.Close()

	svc := newTestCompletion(t, server.URL+"/v1")
	_, err := svc.Complete(context.Background(), "prompt", 500, 0.1)
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}
