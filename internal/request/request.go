package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/google/uuid"
)

// TokenSource supplies bearer tokens for outgoing requests. *auth.TokenManager
// satisfies it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	ClearCache()
}

// Classification is the structured failure category on an envelope. One
// consistent policy everywhere: 422 is business validation, not a technical
// failure class of its own at each call site.
type Classification string

const (
	ClassNone               Classification = ""
	ClassAuth               Classification = "auth-error"
	ClassBusinessValidation Classification = "business-validation"
	ClassClient             Classification = "client-error"
	ClassServer             Classification = "server-error"
	ClassTransport          Classification = "transport-error"
)

// Envelope is the uniform outcome of every request. A call always produces
// one, success or failure; per-request HTTP outcomes never surface as errors.
type Envelope struct {
	// Success is strictly 200 <= Status < 300, independent of payload shape.
	Success bool `json:"success"`
	// Status is the HTTP status, or 0 when the transport itself failed.
	Status int `json:"httpStatus"`
	// Data holds the response body when it parsed as JSON.
	Data json.RawMessage `json:"data,omitempty"`
	// RawBody holds the response text when it did not parse as JSON.
	RawBody string `json:"rawBody,omitempty"`
	// Error is a human-readable failure summary, empty on success.
	Error string `json:"error,omitempty"`
	// Classification categorizes the failure for programmatic branching.
	Classification Classification `json:"classification,omitempty"`
	// Hints is a troubleshooting list keyed off the status taxonomy.
	Hints []string `json:"hints,omitempty"`

	Endpoint      string            `json:"endpoint"`
	Method        string            `json:"method"`
	ParamsApplied map[string]string `json:"paramsApplied,omitempty"`
	// RequestID correlates the envelope with debug logs.
	RequestID string `json:"requestId"`
	// Duration covers the whole call, token acquisition and retry included.
	Duration time.Duration `json:"-"`
}

// MarshalJSON emits Duration as integer milliseconds under timingMs.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	type alias Envelope
	return json.Marshal(&struct {
		*alias
		TimingMS int64 `json:"timingMs"`
	}{alias: (*alias)(e), TimingMS: e.Duration.Milliseconds()})
}

// Executor performs authenticated HTTP calls against the platform API and
// normalizes every outcome into an Envelope.
type Executor struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     log.Interface
}

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Executor) { e.httpClient = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Interface) Option {
	return func(e *Executor) { e.logger = l }
}

// NewExecutor creates an Executor for the API rooted at baseURL.
func NewExecutor(baseURL string, tokens TokenSource, opts ...Option) *Executor {
	e := &Executor{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     &log.Logger{Handler: discard.Default, Level: log.InfoLevel},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do performs one API call. The returned error is non-nil only when token
// acquisition failed (*auth.Error); every HTTP outcome, including 4xx/5xx and
// transport failures, comes back inside the Envelope. Cancellation and
// deadlines propagate through ctx to the underlying transport.
//
// On a 401 the executor clears the token cache and retries exactly once with
// a fresh token; the retried outcome is the one returned.
func (e *Executor) Do(ctx context.Context, endpoint, method string, params map[string]string, body []byte) (*Envelope, error) {
	start := time.Now()
	requestID := uuid.NewString()

	logger := e.logger.WithFields(log.Fields{
		"requestId": requestID,
		"endpoint":  endpoint,
		"method":    method,
	})

	token, err := e.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	env := e.roundTrip(ctx, logger, token, endpoint, method, params, body)

	if env.Status == http.StatusUnauthorized {
		// A 401 usually means the cached token went stale server-side.
		logger.Debug("request: 401, refreshing token and retrying once")
		e.tokens.ClearCache()
		token, err = e.tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		env = e.roundTrip(ctx, logger, token, endpoint, method, params, body)
	}

	env.ParamsApplied = params
	env.RequestID = requestID
	env.Duration = time.Since(start)

	logger.WithFields(log.Fields{
		"status":   env.Status,
		"success":  env.Success,
		"duration": env.Duration,
	}).Debug("request: done")

	return env, nil
}

// roundTrip performs a single HTTP exchange and fills everything on the
// envelope except the caller-level fields (params, request id, duration).
func (e *Executor) roundTrip(ctx context.Context, logger log.Interface, token, endpoint, method string, params map[string]string, body []byte) *Envelope {
	env := &Envelope{Endpoint: endpoint, Method: method}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.buildURL(endpoint, params), reader)
	if err != nil {
		fillTransportFailure(env, fmt.Errorf("build request: %w", err))
		return env
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		logger.Debugf("request: transport failure: %v", err)
		fillTransportFailure(env, err)
		return env
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fillTransportFailure(env, fmt.Errorf("read response: %w", err))
		return env
	}

	env.Status = resp.StatusCode
	env.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	if json.Valid(respBody) {
		env.Data = json.RawMessage(respBody)
	} else {
		env.RawBody = string(respBody)
	}

	if !env.Success {
		env.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 512))
		env.Classification, env.Hints = classify(resp.StatusCode)
	}

	return env
}

// buildURL joins the base URL, endpoint path, and query parameters. Empty
// parameter values are omitted rather than serialized as empty pairs.
func (e *Executor) buildURL(endpoint string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		if k == "" || v == "" {
			continue
		}
		q.Set(k, v)
	}
	u := e.baseURL + endpoint
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func fillTransportFailure(env *Envelope, err error) {
	env.Status = 0
	env.Success = false
	env.Error = err.Error()
	env.Classification = ClassTransport
	env.Hints = []string{
		"check network connectivity and proxy settings",
		"verify the base URL is correct and reachable",
		"the request may have been cancelled or timed out",
	}
}

// classify maps an unsuccessful HTTP status to a failure class and a
// troubleshooting list suitable for direct display.
func classify(status int) (Classification, []string) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ClassAuth, []string{
			"verify the client credentials are valid and not revoked",
			"verify the granted scope covers this endpoint",
			"check that the program id belongs to this client",
		}
	case status == http.StatusUnprocessableEntity:
		return ClassBusinessValidation, []string{
			"HTTP 422 is business validation: the request was understood but matched no data or violated a platform rule",
			"review the query parameters for ids or dates the platform rejects",
			"an empty result for these parameters may be the expected outcome",
		}
	case status == http.StatusNotFound:
		return ClassClient, []string{
			"verify the endpoint path is correct",
			"verify referenced ids exist in this program",
		}
	case status >= 400 && status < 500:
		return ClassClient, []string{
			"review the request parameters against the endpoint documentation",
			"verify required parameters are present",
		}
	case status >= 500:
		return ClassServer, []string{
			"the platform reported an internal failure; retry later",
			"check the platform status page before escalating",
		}
	default:
		// 1xx/3xx and anything else outside the taxonomy; still unsuccessful,
		// so still worth a troubleshooting list.
		return ClassClient, []string{
			"the platform returned an unexpected non-success status",
			"if this is a redirect, the resource may have moved; verify the base URL",
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
