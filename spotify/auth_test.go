package spotify

import (
	"net/http/httptest"
	"testing"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

func newTestAuthenticator() *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithRedirectURL("http://localhost:8888/callback"),
		spotifyauth.WithClientID("test_client_id"),
		spotifyauth.WithClientSecret("test_client_secret"),
	)
}

func TestCallbackHandlerRejectsBadState(t *testing.T) {
	results := make(chan callbackResult, 1)
	handler := callbackHandler(newTestAuthenticator(), "expected-state", results)

	req := httptest.NewRequest("GET", "/callback?state=forged&code=abc", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != 403 {
		t.Errorf("Expected 403 for a state mismatch, got %d", rec.Code)
	}

	select {
	case result := <-results:
		if result.err == nil {
			t.Error("Expected an error to be delivered for a state mismatch")
		}
		if result.token != nil {
			t.Error("Expected no token for a state mismatch")
		}
	default:
		t.Fatal("Expected a result on the channel")
	}
}

func TestCallbackHandlerRejectsProviderError(t *testing.T) {
	results := make(chan callbackResult, 1)
	handler := callbackHandler(newTestAuthenticator(), "expected-state", results)

	req := httptest.NewRequest("GET", "/callback?state=expected-state&error=access_denied", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != 403 {
		t.Errorf("Expected 403 when the user denies access, got %d", rec.Code)
	}

	select {
	case result := <-results:
		if result.err == nil {
			t.Error("Expected an error when the user denies access")
		}
	default:
		t.Fatal("Expected a result on the channel")
	}
}

func TestCallbackHandlerNeverBlocksOnSecondCallback(t *testing.T) {
	results := make(chan callbackResult, 1)
	handler := callbackHandler(newTestAuthenticator(), "expected-state", results)

	// Two stray callbacks; only the first outcome may land on the channel
	// and the second must not block the handler goroutine.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/callback?state=forged&code=abc", nil)
		handler(httptest.NewRecorder(), req)
	}

	if got := len(results); got != 1 {
		t.Errorf("Expected exactly 1 buffered result, got %d", got)
	}
}
