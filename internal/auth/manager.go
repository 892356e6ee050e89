package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Credentials for the client_credentials grant (RFC 6749 Section 4.4).
// Immutable for the lifetime of the TokenManager that holds them.
type Credentials struct {
	// TokenURL is the OAuth2 token endpoint.
	TokenURL string
	// ClientID and ClientSecret identify this integration.
	ClientID     string
	ClientSecret string
	// Scope is the requested scope (optional).
	Scope string
}

const (
	defaultMaxAttempts  = 3
	defaultBackoffBase  = 2 * time.Second
	defaultExpiryBuffer = 60 * time.Second
)

// authHints is shown alongside every exhausted-retry failure so the error is
// actionable without reading code.
var authHints = []string{
	"verify the client id and client secret are correct and not expired",
	"verify the token endpoint URL is correct for this environment",
	"check network connectivity and proxy settings to the token endpoint",
}

// Error is an authentication failure after the retry budget is spent. It is
// one of the two error types allowed to escape to callers; per-request HTTP
// outcomes are reported through response envelopes instead.
type Error struct {
	Err      error
	Attempts int
	Hints    []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth: token acquisition failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// TokenManager acquires and caches OAuth2 access tokens for the
// client_credentials grant. The cached token is replaced as a whole on
// refresh, never mutated in place, so concurrent readers always see a
// consistent token/expiry pair. Concurrent callers hitting a stale cache
// share a single in-flight acquisition.
//
// TokenManager satisfies oauth2.TokenSource.
type TokenManager struct {
	creds        Credentials
	httpClient   *http.Client
	logger       log.Interface
	maxAttempts  int
	backoffBase  time.Duration
	expiryBuffer time.Duration

	group singleflight.Group

	mu           sync.Mutex
	token        *oauth2.Token
	acquiredAt   time.Time
	lastLatency  time.Duration
	lastAttempts int
}

// Option configures a TokenManager.
type Option func(*TokenManager)

// WithHTTPClient replaces the HTTP client used for token requests.
func WithHTTPClient(c *http.Client) Option {
	return func(m *TokenManager) { m.httpClient = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Interface) Option {
	return func(m *TokenManager) { m.logger = l }
}

// WithMaxAttempts overrides the retry budget (default 3).
func WithMaxAttempts(n int) Option {
	return func(m *TokenManager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithBackoffBase overrides the base delay doubled between attempts (default 2s).
func WithBackoffBase(d time.Duration) Option {
	return func(m *TokenManager) {
		if d > 0 {
			m.backoffBase = d
		}
	}
}

// WithExpiryBuffer overrides the safety margin subtracted from the
// server-declared token lifetime (default 60s).
func WithExpiryBuffer(d time.Duration) Option {
	return func(m *TokenManager) {
		if d >= 0 {
			m.expiryBuffer = d
		}
	}
}

// NewTokenManager creates a TokenManager for the given credentials.
func NewTokenManager(creds Credentials, opts ...Option) *TokenManager {
	m := &TokenManager{
		creds:        creds,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       &log.Logger{Handler: discard.Default, Level: log.InfoLevel},
		maxAttempts:  defaultMaxAttempts,
		backoffBase:  defaultBackoffBase,
		expiryBuffer: defaultExpiryBuffer,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AccessToken returns a valid bearer token, reusing the cache while the token
// is inside its validity window and acquiring a fresh one otherwise. When
// several goroutines find the cache stale at once, exactly one token request
// is issued and all of them receive its result.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	if tok := m.cached(); tok != nil {
		return tok.AccessToken, nil
	}

	tok, err := m.sharedAcquire(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Token implements oauth2.TokenSource.
func (m *TokenManager) Token() (*oauth2.Token, error) {
	if tok := m.cached(); tok != nil {
		return tok, nil
	}
	return m.sharedAcquire(context.Background())
}

// sharedAcquire funnels concurrent stale-cache callers into one acquisition.
func (m *TokenManager) sharedAcquire(ctx context.Context) (*oauth2.Token, error) {
	v, err, _ := m.group.Do("token", func() (interface{}, error) {
		// Re-check under the group: a caller that lost the race may arrive
		// after the winner already cached a fresh token.
		if tok := m.cached(); tok != nil {
			return tok, nil
		}
		return m.acquire(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*oauth2.Token), nil
}

// cached returns the current token when it is still usable, nil otherwise.
// The expiry buffer was already subtracted at cache time.
func (m *TokenManager) cached() *oauth2.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != nil && time.Now().Before(m.token.Expiry) {
		return m.token
	}
	return nil
}

// acquire performs the client_credentials grant with retries and caches the
// result. Backoff between attempts doubles from backoffBase (2s, 4s, ...).
func (m *TokenManager) acquire(ctx context.Context) (*oauth2.Token, error) {
	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := m.backoffBase << (attempt - 2)
			m.logger.Debugf("auth: attempt %d/%d in %s", attempt, m.maxAttempts, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &Error{Err: ctx.Err(), Attempts: attempt - 1, Hints: authHints}
			}
		}

		tok, err := m.requestToken(ctx)
		if err == nil {
			m.mu.Lock()
			m.token = tok
			m.acquiredAt = time.Now()
			m.lastLatency = time.Since(start)
			m.lastAttempts = attempt
			m.mu.Unlock()
			m.logger.WithField("attempts", attempt).Debug("auth: token acquired")
			return tok, nil
		}

		lastErr = err
		m.logger.Debugf("auth: attempt %d/%d failed: %v", attempt, m.maxAttempts, err)
	}

	m.mu.Lock()
	m.lastAttempts = m.maxAttempts
	m.mu.Unlock()

	return nil, &Error{Err: lastErr, Attempts: m.maxAttempts, Hints: authHints}
}

// requestToken performs one token-endpoint round trip.
func (m *TokenManager) requestToken(ctx context.Context) (*oauth2.Token, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {m.creds.ClientID},
		"client_secret": {m.creds.ClientSecret},
	}
	if m.creds.Scope != "" {
		form.Set("scope", m.creds.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.creds.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("token error %s: %s", errResp.Error, errResp.Description)
		}
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	// Subtract the buffer up front so no caller ever observes a token inside
	// its final moments of server-side validity.
	expiry := time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - m.expiryBuffer)

	return &oauth2.Token{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		Expiry:      expiry,
	}, nil
}

// ClearCache drops the cached token. Idempotent. The next AccessToken call
// performs a full fresh acquisition.
func (m *TokenManager) ClearCache() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
}

// Status is a read-only snapshot of the token cache.
type Status struct {
	// Authenticated reports whether a usable token is currently cached.
	Authenticated bool
	// RemainingValidity is how long the cached token stays usable; zero when
	// no token is cached.
	RemainingValidity time.Duration
	// AcquiredAt is when the most recent token was obtained.
	AcquiredAt time.Time
	// LastLatency is the wall time of the most recent acquisition, retries
	// included.
	LastLatency time.Duration
	// LastAttempts is how many attempts the most recent acquisition used.
	LastAttempts int
}

// Status reports the token cache state without side effects.
func (m *TokenManager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{
		AcquiredAt:   m.acquiredAt,
		LastLatency:  m.lastLatency,
		LastAttempts: m.lastAttempts,
	}
	if m.token != nil {
		if remaining := time.Until(m.token.Expiry); remaining > 0 {
			s.Authenticated = true
			s.RemainingValidity = remaining
		}
	}
	return s
}
