package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/username/megamart/backend/src/config"
	"github.com/username/megamart/backend/src/logger"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// Authenticator is the slice of the auth client the executor needs: header
// construction and the single re-login performed on an authorization error.
type Authenticator interface {
	Login(ctx context.Context, email, password string) bool
	Headers(platform config.Platform) http.Header
}

// Client executes GraphQL operations against the two storefronts. The rate
// limiter is the shared last-request watermark: one throttle across both
// platforms, advanced on every physical attempt. Not safe for concurrent
// callers; operations are expected to run sequentially.
type Client struct {
	cfg        *config.Config
	auth       Authenticator
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(cfg *config.Config, authClient Authenticator) *Client {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	return &Client{
		cfg:  cfg,
		auth: authClient,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(cfg.RateLimitDelay), 1),
	}
}

type graphQLError struct {
	Message string `json:"message"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// authRetryState tracks the one-shot re-authentication performed when the
// B2B storefront rejects the bearer token mid-operation. The transition
// idle -> refreshing -> retried can happen at most once per Execute call,
// and the retried attempt does not consume retry budget.
type authRetryState int

const (
	authIdle authRetryState = iota
	authRefreshing
	authRetried
)

// Execute runs one GraphQL operation and returns its data payload. Transport
// failures are retried with exponential backoff; a B2B authorization error
// triggers a single re-login and replay. Backend and shape errors surface
// immediately as typed errors.
func (c *Client) Execute(ctx context.Context, platform config.Platform, query string, variables map[string]any, operationName string) (json.RawMessage, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	encodedVars, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("encoding variables for %s: %w", operationName, err)
	}

	endpoint := c.cfg.Platform(platform).Endpoint
	headers := c.auth.Headers(platform)
	state := authIdle

	for attempt := 0; attempt < c.cfg.RetryAttempts; {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}

		logger.L.Debug("Executing GraphQL operation",
			"operation", operationName, "platform", platform, "attempt", attempt+1)

		data, err := c.doRequest(ctx, endpoint, query, operationName, string(encodedVars), headers)
		switch {
		case err == nil:
			return data, nil

		case errors.Is(err, ErrAuthorization) && platform == config.PlatformB2B && state == authIdle:
			logger.L.Info("B2B authentication expired, re-authenticating", "operation", operationName)
			state = authRefreshing
			if !c.auth.Login(ctx, "", "") {
				return nil, err
			}
			state = authRetried
			headers = c.auth.Headers(platform)
			// Replay the same attempt with the refreshed bearer header.

		case errors.Is(err, ErrTransport):
			logger.L.Error("Request error",
				"operation", operationName, "attempt", attempt+1, "error", err)
			attempt++
			if attempt >= c.cfg.RetryAttempts {
				return nil, err
			}
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)

		default:
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s exhausted %d attempts", ErrTransport, operationName, c.cfg.RetryAttempts)
}

// doRequest performs one physical round trip. Queries go out as GETs with
// the document and JSON-encoded variables in the query string, matching what
// the storefronts serve to their own web clients.
func (c *Client) doRequest(ctx context.Context, endpoint, query, operationName, variables string, headers http.Header) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}

	q := req.URL.Query()
	q.Set("query", query)
	q.Set("operationName", operationName)
	q.Set("variables", variables)
	req.URL.RawQuery = q.Encode()
	req.Header = headers.Clone()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d from %s", ErrTransport, resp.StatusCode, endpoint)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrMalformed, err)
	}

	if len(env.Errors) > 0 {
		logger.L.Error("GraphQL errors", "operation", operationName, "message", env.Errors[0].Message)
		if isAuthorizationError(env.Errors) {
			return nil, fmt.Errorf("%w: %s", ErrAuthorization, env.Errors[0].Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrBackend, env.Errors[0].Message)
	}

	return env.Data, nil
}

func isAuthorizationError(errs []graphQLError) bool {
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e.Message), "authorization") {
			return true
		}
	}
	return false
}
