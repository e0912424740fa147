// Package client is the typed consumer of the EVEP admin REST services.
//
// Calls never retry and never read tokens from process state: the bearer
// token comes from the Session carried by the request context.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TELY01-DEV/evep-admin/config"
	"github.com/TELY01-DEV/evep-admin/models"
)

// maxErrorBody caps how much of a failed response is kept in an APIError.
const maxErrorBody = 4 << 10

// Client talks to every backend service through one *http.Client.
type Client struct {
	cfg  *config.ConsoleConfig
	http *http.Client
	log  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

func New(cfg *config.ConsoleConfig, opts ...Option) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// =============================================================================
// AUTH
// =============================================================================

// Login exchanges credentials for a Session. It is the only call that does
// not need one.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	in := map[string]string{"username": username, "password": password}
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
		User      struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := c.send(ctx, false, http.MethodPost, config.ServiceAuth, "/auth/login", nil, in, &out); err != nil {
		return Session{}, err
	}
	return Session{
		Token:     out.Token,
		Username:  out.User.Username,
		Role:      out.User.Role,
		ExpiresAt: out.ExpiresAt,
	}, nil
}

// Me returns the account behind the context's session.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.send(ctx, true, http.MethodGet, config.ServiceAuth, "/auth/me", nil, nil, &u)
	return u, err
}

func (c *Client) Dashboard(ctx context.Context) (models.DashboardSummary, error) {
	var s models.DashboardSummary
	err := c.send(ctx, true, http.MethodGet, config.ServiceDashboard, "/dashboard/summary", nil, nil, &s)
	return s, err
}

// =============================================================================
// JSON HELPERS
// =============================================================================

func Get[T any](ctx context.Context, c *Client, service, path string) (T, error) {
	var out T
	err := c.send(ctx, true, http.MethodGet, service, path, nil, nil, &out)
	return out, err
}

func Create[T any](ctx context.Context, c *Client, service, path string, in any) (T, error) {
	var out T
	err := c.send(ctx, true, http.MethodPost, service, path, nil, in, &out)
	return out, err
}

func Update[T any](ctx context.Context, c *Client, service, path string, in any) (T, error) {
	var out T
	err := c.send(ctx, true, http.MethodPut, service, path, nil, in, &out)
	return out, err
}

func Patch[T any](ctx context.Context, c *Client, service, path string, in any) (T, error) {
	var out T
	err := c.send(ctx, true, http.MethodPatch, service, path, nil, in, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, service, path string) error {
	return c.send(ctx, true, http.MethodDelete, service, path, nil, nil, nil)
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) send(ctx context.Context, auth bool, method, service, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	u := c.cfg.URL(service) + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		s, ok := SessionFrom(ctx)
		if !ok {
			return ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Error   string            `json:"error"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// proxies and the mux answer with plain text
		apiErr.Message = string(bytes.TrimSpace(raw))
		return apiErr
	}
	apiErr.Code = payload.Error
	apiErr.Message = payload.Message
	apiErr.Fields = payload.Fields
	return apiErr
}
