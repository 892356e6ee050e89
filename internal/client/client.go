package client

import (
	"context"
	"net/http"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"

	"github.com/edscope/edscope/internal/auth"
	"github.com/edscope/edscope/internal/env"
	"github.com/edscope/edscope/internal/params"
	"github.com/edscope/edscope/internal/request"
	"github.com/edscope/edscope/internal/resolve"
)

// Client is the public surface of the library: token lifecycle, parameter
// injection, request execution, and natural-language endpoint resolution
// behind one constructor. Multiple clients with different credentials can
// coexist; nothing is process-global.
type Client struct {
	cfg      *env.Config
	tokens   *auth.TokenManager
	registry *params.Registry
	injector *params.Injector
	executor *request.Executor
	resolver *resolve.Resolver
	logger   log.Interface
}

// Option configures a Client.
type Option func(*options)

type options struct {
	logger     log.Interface
	httpClient *http.Client
	authOpts   []auth.Option
}

// WithLogger sets the logger used across all components. The default
// discards everything.
func WithLogger(l log.Interface) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient replaces the HTTP client for both token and API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithAuthOptions forwards options to the token manager (retry budget,
// backoff base, expiry buffer).
func WithAuthOptions(opts ...auth.Option) Option {
	return func(o *options) { o.authOpts = append(o.authOpts, opts...) }
}

// New builds a Client from a loaded configuration.
func New(cfg *env.Config, opts ...Option) *Client {
	o := &options{
		logger: &log.Logger{Handler: discard.Default, Level: log.InfoLevel},
	}
	for _, opt := range opts {
		opt(o)
	}

	// The configured timeout bounds every HTTP call unless the caller brings
	// their own client.
	if o.httpClient == nil && cfg.RequestTimeout > 0 {
		o.httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	authOpts := []auth.Option{auth.WithLogger(o.logger)}
	execOpts := []request.Option{request.WithLogger(o.logger)}
	if o.httpClient != nil {
		authOpts = append(authOpts, auth.WithHTTPClient(o.httpClient))
		execOpts = append(execOpts, request.WithHTTPClient(o.httpClient))
	}
	authOpts = append(authOpts, o.authOpts...)

	tokens := auth.NewTokenManager(auth.Credentials{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scope:        cfg.Scope,
	}, authOpts...)

	registry := params.NewRegistry()

	return &Client{
		cfg:      cfg,
		tokens:   tokens,
		registry: registry,
		injector: params.NewInjector(registry, cfg),
		executor: request.NewExecutor(cfg.BaseURL, tokens, execOpts...),
		resolver: resolve.NewResolver(),
		logger:   o.logger,
	}
}

// AccessToken returns a valid bearer token, from cache when possible.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	return c.tokens.AccessToken(ctx)
}

// ClearTokenCache drops the cached token; the next call re-authenticates.
func (c *Client) ClearTokenCache() {
	c.tokens.ClearCache()
}

// AuthStatus reports the token cache state without side effects.
func (c *Client) AuthStatus() auth.Status {
	return c.tokens.Status()
}

// InjectParameters merges contextual and default parameters for an endpoint
// without performing a request. Caller-supplied values always win.
func (c *Client) InjectParameters(endpoint, operation string, userParams map[string]string) params.Result {
	return c.injector.Inject(endpoint, operation, userParams)
}

// RegisterPattern teaches the client a new endpoint pattern. Additive only.
func (c *Client) RegisterPattern(operation string, p params.Pattern) error {
	return c.registry.Register(operation, p)
}

// Endpoints returns the natural-language endpoint catalog.
func (c *Client) Endpoints() []resolve.Endpoint {
	return c.resolver.Catalog()
}

// MakeRequest injects parameters and performs the call. The error is non-nil
// only for authentication failure; all HTTP outcomes arrive in the envelope.
func (c *Client) MakeRequest(ctx context.Context, endpoint, method string, userParams map[string]string, body []byte) (*request.Envelope, error) {
	return c.call(ctx, endpoint, "", method, userParams, body)
}

// Query performs a GET against a cataloged operation by name.
func (c *Client) Query(ctx context.Context, operation string, userParams map[string]string) (*request.Envelope, error) {
	for _, e := range c.resolver.Catalog() {
		if e.Operation == operation {
			return c.call(ctx, e.Path, e.Operation, http.MethodGet, userParams, nil)
		}
	}
	// Unknown operation: fall through to the injector's own fallback lookup
	// using the operation name as the path.
	return c.call(ctx, "/"+operation, operation, http.MethodGet, userParams, nil)
}

// Ask resolves a natural-language phrase to its best-matching endpoint and
// queries it. The resolved match is returned alongside the envelope so
// callers can show what the phrase mapped to.
func (c *Client) Ask(ctx context.Context, phrase string, userParams map[string]string) (resolve.Match, *request.Envelope, error) {
	match, err := c.resolver.Best(phrase)
	if err != nil {
		return resolve.Match{}, nil, err
	}
	c.logger.WithFields(log.Fields{
		"phrase":    phrase,
		"operation": match.Endpoint.Operation,
		"score":     match.Score,
	}).Debug("client: phrase resolved")

	envlp, err := c.call(ctx, match.Endpoint.Path, match.Endpoint.Operation, http.MethodGet, userParams, nil)
	return match, envlp, err
}

func (c *Client) call(ctx context.Context, endpoint, operation, method string, userParams map[string]string, body []byte) (*request.Envelope, error) {
	res := c.injector.Inject(endpoint, operation, userParams)
	for _, w := range res.Warnings {
		c.logger.WithField("endpoint", endpoint).Warnf("client: %s", w)
	}
	return c.executor.Do(ctx, endpoint, method, res.Final, body)
}
