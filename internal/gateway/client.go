// Package gateway talks to the remote-desktop gateway's REST API and
// provides a development gateway that serves the same endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/portal/internal/core/logging"
	"github.com/colonyops/portal/internal/core/permission"
)

// TokenHeader carries the auth token on authenticated requests.
const TokenHeader = "Portal-Token"

var (
	// ErrUnauthorized is returned for rejected credentials or tokens.
	ErrUnauthorized = errors.New("gateway: unauthorized")
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("gateway: not found")
)

// Token is an issued auth token.
type Token struct {
	AuthToken string `json:"authToken"`
	Username  string `json:"username"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// errorBody is the JSON error returned by the gateway.
type errorBody struct {
	Message string `json:"message"`
}

// Client is an HTTP client for the gateway API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a client for the gateway at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		logger:  logging.Component("gateway-client"),
	}, nil
}

// CreateToken exchanges a username and password for an auth token.
func (c *Client) CreateToken(ctx context.Context, username, password string) (Token, error) {
	var tok Token
	err := c.do(ctx, http.MethodPost, "/api/tokens", "", credentials{Username: username, Password: password}, &tok)
	if err != nil {
		return Token{}, fmt.Errorf("create token: %w", err)
	}
	return tok, nil
}

// RevokeToken invalidates token.
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/tokens/"+url.PathEscape(token), token, nil, nil); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Permissions returns the permissions granted to userID.
func (c *Client) Permissions(ctx context.Context, token, userID string) (permission.Set, error) {
	var set permission.Set
	p := "/api/users/" + url.PathEscape(userID) + "/permissions"
	if err := c.do(ctx, http.MethodGet, p, token, nil, &set); err != nil {
		return permission.Set{}, fmt.Errorf("get permissions: %w", err)
	}
	return set, nil
}

// Health checks that the gateway is reachable.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/api/health", "", nil, nil); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, p, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		bits, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(bits)
	}

	u := c.baseURL.JoinPath(p)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().Ctx(ctx).
		Str("method", method).
		Str("path", p).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("gateway request")

	if err := statusError(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
	msg := eb.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	default:
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, msg)
	}
}
