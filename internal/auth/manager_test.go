package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func tokenServer(t *testing.T, hits *int32, expiresIn int, failFirst int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(hits, 1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.FormValue("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want %q", got, "client_credentials")
		}
		if int(n) <= failFirst {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "server_error"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok123",
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
}

func TestAccessToken_ReusesCachedToken(t *testing.T) {
	var hits int32
	server := tokenServer(t, &hits, 3600, 0)
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"})

	first, err := m.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}
	second, err := m.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	if first != second {
		t.Errorf("tokens differ: %q vs %q", first, second)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("token endpoint hits = %d, want 1", got)
	}
}

func TestAccessToken_ExpiryBufferSubtracted(t *testing.T) {
	var hits int32
	server := tokenServer(t, &hits, 300, 0)
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"})

	before := time.Now()
	if _, err := m.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	m.mu.Lock()
	expiry := m.token.Expiry
	m.mu.Unlock()

	// expires_in 300s minus the 60s buffer: expiry must land near +240s.
	want := before.Add(240 * time.Second)
	if diff := expiry.Sub(want); diff < 0 || diff > 5*time.Second {
		t.Errorf("expiry = %s, want ~%s", expiry, want)
	}
}

func TestAccessToken_StaleTokenTriggersReacquisition(t *testing.T) {
	var hits int32
	// expires_in 1s is inside the 60s buffer, so the token is stale on arrival.
	server := tokenServer(t, &hits, 1, 0)
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"})

	if _, err := m.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}
	if _, err := m.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("token endpoint hits = %d, want 2", got)
	}
}

func TestAccessToken_RetriesWithBackoffThenSucceeds(t *testing.T) {
	var hits int32
	server := tokenServer(t, &hits, 3600, 2)
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"},
		WithBackoffBase(10*time.Millisecond))

	start := time.Now()
	token, err := m.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}
	elapsed := time.Since(start)

	if token != "tok123" {
		t.Errorf("token = %q, want %q", token, "tok123")
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("token endpoint hits = %d, want 3", got)
	}
	// Backoff doubles from the base: 10ms then 20ms.
	if elapsed < 30*time.Millisecond {
		t.Errorf("elapsed = %s, want >= 30ms of backoff", elapsed)
	}
	if got := m.Status().LastAttempts; got != 3 {
		t.Errorf("LastAttempts = %d, want 3", got)
	}
}

func TestAccessToken_ExhaustedRetriesReturnsError(t *testing.T) {
	var hits int32
	server := tokenServer(t, &hits, 3600, 100)
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"},
		WithBackoffBase(time.Millisecond))

	token, err := m.AccessToken(context.Background())
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}

	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("error type = %T, want *auth.Error", err)
	}
	if authErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", authErr.Attempts)
	}
	if len(authErr.Hints) == 0 {
		t.Error("expected troubleshooting hints")
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("token endpoint hits = %d, want 3", got)
	}
}

func TestAccessToken_MissingAccessTokenIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"token_type": "Bearer", "expires_in": 3600})
	}))
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"},
		WithBackoffBase(time.Millisecond))

	_, err := m.AccessToken(context.Background())
	if err == nil {
		t.Fatal("expected error for missing access_token")
	}
	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("error type = %T, want *auth.Error", err)
	}
}

func TestAccessToken_ConcurrentCallersShareOneAcquisition(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "shared-tok",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"})

	const callers = 10
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = m.AccessToken(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d error: %v", i, errs[i])
		}
		if tokens[i] != "shared-tok" {
			t.Errorf("caller %d token = %q, want %q", i, tokens[i], "shared-tok")
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("token endpoint hits = %d, want 1", got)
	}
}

func TestClearCache_IdempotentAndForcesReacquisition(t *testing.T) {
	var hits int32
	server := tokenServer(t, &hits, 3600, 0)
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"})

	if _, err := m.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	m.ClearCache()
	m.ClearCache() // second clear is a no-op

	if got := m.Status().Authenticated; got {
		t.Error("Authenticated = true after clear, want false")
	}

	if _, err := m.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("token endpoint hits = %d, want 2", got)
	}
}

func TestStatus_ReportsRemainingValidity(t *testing.T) {
	var hits int32
	server := tokenServer(t, &hits, 3600, 0)
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"})

	if s := m.Status(); s.Authenticated {
		t.Error("Authenticated = true before first acquisition")
	}

	if _, err := m.AccessToken(context.Background()); err != nil {
		t.Fatalf("AccessToken error: %v", err)
	}

	s := m.Status()
	if !s.Authenticated {
		t.Fatal("Authenticated = false, want true")
	}
	// 3600s minus the 60s buffer.
	if s.RemainingValidity > 3540*time.Second || s.RemainingValidity < 3535*time.Second {
		t.Errorf("RemainingValidity = %s, want ~3540s", s.RemainingValidity)
	}
	if s.AcquiredAt.IsZero() {
		t.Error("AcquiredAt is zero")
	}
	if s.LastLatency < 0 {
		t.Errorf("LastLatency = %s, want >= 0", s.LastLatency)
	}
	if s.LastAttempts != 1 {
		t.Errorf("LastAttempts = %d, want 1", s.LastAttempts)
	}
}

func TestTokenManager_ImplementsTokenSource(t *testing.T) {
	var hits int32
	server := tokenServer(t, &hits, 3600, 0)
	defer server.Close()

	m := NewTokenManager(Credentials{TokenURL: server.URL, ClientID: "c", ClientSecret: "s"})
	var _ oauth2.TokenSource = m

	tok, err := m.Token()
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if tok.AccessToken != "tok123" {
		t.Errorf("AccessToken = %q, want %q", tok.AccessToken, "tok123")
	}
	if tok.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want %q", tok.TokenType, "Bearer")
	}
	if !tok.Expiry.After(time.Now()) {
		t.Error("Expiry is not in the future")
	}
}
