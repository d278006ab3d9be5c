package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/username/megamart/backend/src/config"
	"github.com/username/megamart/backend/src/logger"
)

const generateTokenMutation = `
mutation generateCustomerToken($email: String!, $password: String!) {
  generateCustomerToken(email: $email, password: $password) {
    token
  }
}`

const customerQuery = `
query {
  customer {
    email
    firstname
    lastname
  }
}`

const revokeTokenMutation = `
mutation {
  revokeCustomerToken {
    result
  }
}`

// Client authenticates against the B2B storefront and builds the request
// headers for both storefronts. Browsing B2C never needs authentication;
// holding a token is what "authenticated" means here — validity is only
// known after Verify or after a request fails with an authorization error.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	token      string
}

func NewClient(cfg *config.Config) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.B2BAuth.CustomerToken != "" {
		c.token = cfg.B2BAuth.CustomerToken
		logger.L.Info("Using existing B2B customer token")
	}
	return c
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// post sends a GraphQL mutation/query as a JSON POST to the B2B endpoint.
// The token mutations are the only operations the storefront accepts over
// POST; browsing queries go through the executor as GETs.
func (c *Client) post(ctx context.Context, payload map[string]any) (*graphQLEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.B2B.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building auth request: %w", err)
	}
	req.Header = c.Headers(config.PlatformB2B)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", c.cfg.B2B.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("auth endpoint returned status %d", resp.StatusCode)
	}

	var env graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}
	return &env, nil
}

// Login exchanges credentials for a customer token. Empty arguments fall
// back to the configured credentials; with neither available it fails
// without issuing a request. The token is stored both locally and back into
// the shared config.
func (c *Client) Login(ctx context.Context, email, password string) bool {
	if email == "" {
		email = c.cfg.B2BAuth.Username
	}
	if password == "" {
		password = c.cfg.B2BAuth.Password
	}
	if email == "" || password == "" {
		logger.L.Error("B2B credentials not provided")
		return false
	}

	logger.L.Info("Authenticating with B2B platform", "email", email)

	env, err := c.post(ctx, map[string]any{
		"query":         generateTokenMutation,
		"operationName": "generateCustomerToken",
		"variables":     map[string]string{"email": email, "password": password},
	})
	if err != nil {
		logger.L.Error("B2B authentication error", "error", err)
		return false
	}
	if len(env.Errors) > 0 {
		logger.L.Error("B2B authentication failed", "message", env.Errors[0].Message)
		return false
	}

	var data struct {
		GenerateCustomerToken *struct {
			Token string `json:"token"`
		} `json:"generateCustomerToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.GenerateCustomerToken == nil {
		logger.L.Error("Unexpected authentication response format", "error", err)
		return false
	}

	c.token = data.GenerateCustomerToken.Token
	c.cfg.SetB2BToken(c.token)
	logger.L.Info("B2B authentication successful")
	return true
}

// Verify checks that the current token still resolves a customer identity.
// Any failure, including transport errors, reads as "not valid".
func (c *Client) Verify(ctx context.Context) bool {
	if c.token == "" {
		return false
	}

	env, err := c.post(ctx, map[string]any{"query": customerQuery})
	if err != nil {
		logger.L.Error("Token verification error", "error", err)
		return false
	}
	if len(env.Errors) > 0 {
		logger.L.Warn("B2B token verification failed", "message", env.Errors[0].Message)
		return false
	}

	var data struct {
		Customer *struct {
			Email string `json:"email"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Customer == nil {
		return false
	}

	logger.L.Info("B2B token valid", "email", data.Customer.Email)
	return true
}

// Logout revokes the current token. With no token held it trivially
// succeeds; anything short of a confirmed revocation leaves the token
// untouched and reports failure.
func (c *Client) Logout(ctx context.Context) bool {
	if c.token == "" {
		return true
	}

	env, err := c.post(ctx, map[string]any{
		"query":         revokeTokenMutation,
		"operationName": "revokeCustomerToken",
	})
	if err != nil {
		logger.L.Error("B2B logout error", "error", err)
		return false
	}

	var data struct {
		RevokeCustomerToken *struct {
			Result bool `json:"result"`
		} `json:"revokeCustomerToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.RevokeCustomerToken == nil || !data.RevokeCustomerToken.Result {
		return false
	}

	c.token = ""
	c.cfg.SetB2BToken("")
	logger.L.Info("B2B logout successful")
	return true
}

func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// TokenExpiry peeks at the expiry claim when the customer token happens to
// be a JWT. Display only: the signature is not checked and nothing is
// inferred about validity.
func (c *Client) TokenExpiry() (time.Time, bool) {
	if c.token == "" {
		return time.Time{}, false
	}
	token, _, err := jwt.NewParser().ParseUnverified(c.token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Headers builds the storefront request headers. The bearer token rides
// along on B2B requests whenever one is held.
func (c *Client) Headers(platform config.Platform) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Store", c.cfg.Platform(platform).StoreCode)
	h.Set("User-Agent", c.cfg.UserAgent)
	if platform == config.PlatformB2B && c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
	return h
}
