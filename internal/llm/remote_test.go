package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/reqwiz/internal/model"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func okResponse(content string) chatResponse {
	return chatResponse{Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: content}}}}
}

func testRequest() CompletionRequest {
	return CompletionRequest{Prompt: "list tasks", SystemMessage: "be concise", Temperature: 0.7, MaxTokens: 100}
}

func assertUnavailable(t *testing.T, err error) *model.BackendUnavailableError {
	t.Helper()
	var unavailable *model.BackendUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected BackendUnavailableError, got %v", err)
	}
	return unavailable
}

func TestRemoteComplete_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, okResponse("- Write code\n- Review PRs"))

	backend := NewRemoteBackend(srv.URL, "test-key", "test-model", client, nil)
	got, err := backend.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "- Write code\n- Review PRs" {
		t.Errorf("got %q", got)
	}
}

func TestRemoteComplete_HTTPError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusInternalServerError, map[string]string{"error": "server error"})

	backend := NewRemoteBackend(srv.URL, "test-key", "test-model", client, nil)
	_, err := backend.Complete(context.Background(), testRequest())

	assertUnavailable(t, err)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected wrapped HTTP 500, got %v", err)
	}
}

func TestRemoteComplete_RateLimitedCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	backend := NewRemoteBackend(srv.URL, "test-key", "test-model", srv.Client(), nil)
	_, err := backend.Complete(context.Background(), testRequest())

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests || httpErr.RetryAfter != 3*time.Second {
		t.Errorf("got status %d retry-after %v", httpErr.StatusCode, httpErr.RetryAfter)
	}
}

func TestRemoteComplete_EmptyChoices(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, chatResponse{})

	backend := NewRemoteBackend(srv.URL, "test-key", "test-model", client, nil)
	_, err := backend.Complete(context.Background(), testRequest())
	assertUnavailable(t, err)
}

func TestRemoteComplete_ErrorBody(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, map[string]any{
		"error": map[string]string{"message": "model overloaded", "type": "server_error"},
	})

	backend := NewRemoteBackend(srv.URL, "test-key", "test-model", client, nil)
	_, err := backend.Complete(context.Background(), testRequest())
	assertUnavailable(t, err)
}

func TestRemoteComplete_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	backend := NewRemoteBackend(url, "test-key", "test-model", &http.Client{Timeout: time.Second}, nil)
	_, err := backend.Complete(context.Background(), testRequest())
	assertUnavailable(t, err)
}

func TestRemoteComplete_SendsChatRequest(t *testing.T) {
	var gotReq chatRequest
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(okResponse("ok"))
	}))
	defer srv.Close()

	backend := NewRemoteBackend(srv.URL+"/", "my-secret-key", "gpt-3.5-turbo", srv.Client(), nil)
	if _, err := backend.Complete(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer my-secret-key" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer my-secret-key")
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.Model != "gpt-3.5-turbo" || gotReq.Temperature != 0.7 || gotReq.MaxTokens != 100 {
		t.Errorf("request = %+v", gotReq)
	}
	if len(gotReq.Messages) != 2 ||
		gotReq.Messages[0] != (chatMessage{Role: "system", Content: "be concise"}) ||
		gotReq.Messages[1] != (chatMessage{Role: "user", Content: "list tasks"}) {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestRemoteComplete_NoImplicitRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	backend := NewRemoteBackend(srv.URL, "k", "m", srv.Client(), nil)
	_, _ = backend.Complete(context.Background(), testRequest())
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
