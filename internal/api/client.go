// Package api is the transport boundary to the scheduling backend: plain
// request/response calls plus the websocket push channel.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perrors "github.com/harunnryd/planboard/internal/errors"
	"github.com/harunnryd/planboard/internal/logger"
	"github.com/harunnryd/planboard/internal/session"

	"github.com/oklog/ulid/v2"
)

// CredentialSource supplies the bearer token for each call. The session
// store implements it.
type CredentialSource interface {
	Credential() string
}

type ClientConfig struct {
	BaseURL string
	// WSURL overrides the push channel address. Empty derives it from BaseURL.
	WSURL   string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	wsURL      string
	creds      CredentialSource
	httpClient *http.Client
	dialer     wsDialer
}

type Option func(*Client)

// WithHTTPClient overrides the HTTP client (tests use httptest clients).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(cfg ClientConfig, creds CredentialSource, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, perrors.InvalidInput("api base url is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, perrors.InvalidInput(fmt.Sprintf("api base url %q: %v", base, err))
	}

	wsURL := strings.TrimSpace(cfg.WSURL)
	if wsURL == "" {
		derived, err := DeriveWSURL(base)
		if err != nil {
			return nil, err
		}
		wsURL = derived
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:    base,
		wsURL:      wsURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: timeout},
		dialer:     defaultDialer(timeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DeriveWSURL maps http(s)://host/base to ws(s)://host/base/realtime.
func DeriveWSURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", perrors.InvalidInput(fmt.Sprintf("api base url %q: %v", baseURL, err))
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", perrors.InvalidInput(fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/realtime"
	return u.String(), nil
}

func (c *Client) BaseURL() string { return c.baseURL }
func (c *Client) WSURL() string   { return c.wsURL }

// Authenticate exchanges an email/password pair for a session. It does not
// touch the session store; the caller decides what to do with the result.
func (c *Client) Authenticate(ctx context.Context, email, password string) (session.Session, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return session.Session{}, err
	}

	role, err := session.ParseRole(resp.Role)
	if err != nil {
		return session.Session{}, perrors.Internal(fmt.Sprintf("login response: %v", err))
	}
	if resp.AccessToken == "" {
		return session.Session{}, perrors.Internal("login response without access token")
	}

	return session.Session{
		Credential:  resp.AccessToken,
		Role:        role,
		DisplayName: resp.UserName,
	}, nil
}

// GenerateProposal asks the backend for a new draft. It takes no parameters;
// weights and the setup matrix are server-side configuration.
func (c *Client) GenerateProposal(ctx context.Context) (ScheduleDraft, KPI, error) {
	var resp runResponse
	if err := c.do(ctx, http.MethodPost, "/schedule/run", nil, &resp); err != nil {
		return ScheduleDraft{}, KPI{}, err
	}
	return resp.Draft, resp.KPI, nil
}

// PublishProposal promotes the draft with scheduleID to the current schedule.
func (c *Client) PublishProposal(ctx context.Context, scheduleID int) error {
	return c.do(ctx, http.MethodPost, "/schedule/publish", publishRequest{ScheduleID: scheduleID}, nil)
}

// FetchCurrent returns the published schedule. ok is false when nothing has
// been published yet, which is not an error.
func (c *Client) FetchCurrent(ctx context.Context) (ScheduleDraft, bool, error) {
	var current ScheduleDraft
	err := c.do(ctx, http.MethodGet, "/schedule/current", nil, &current)
	if perrors.IsCategory(err, perrors.ErrNotFound) {
		return ScheduleDraft{}, false, nil
	}
	if err != nil {
		return ScheduleDraft{}, false, err
	}
	return current, true, nil
}

// Rollback republishes an earlier version.
func (c *Client) Rollback(ctx context.Context, version int) (ScheduleDraft, error) {
	var restored ScheduleDraft
	if err := c.do(ctx, http.MethodPost, "/schedule/rollback", rollbackRequest{Version: version}, &restored); err != nil {
		return ScheduleDraft{}, err
	}
	return restored, nil
}

// KPISummary returns the KPIs of the published schedule with scheduleID.
func (c *Client) KPISummary(ctx context.Context, scheduleID int) (KPI, error) {
	var kpi KPI
	path := "/kpi/summary?scheduleId=" + strconv.Itoa(scheduleID)
	if err := c.do(ctx, http.MethodGet, path, nil, &kpi); err != nil {
		return KPI{}, err
	}
	return kpi, nil
}

func (c *Client) authHeader(h http.Header) {
	if c.creds == nil {
		return
	}
	if token := c.creds.Credential(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	traceID := logger.GetTraceID(ctx)
	if traceID == "" {
		traceID = ulid.Make().String()
		ctx = logger.WithTraceID(ctx, traceID)
	}
	log := logger.From(ctx)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return perrors.Internal(fmt.Sprintf("encode request: %v", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return perrors.Internal(fmt.Sprintf("build request: %v", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", traceID)
	c.authHeader(req.Header)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("Request failed", "method", method, "path", path, "error", err)
		return perrors.FromTransport(err)
	}
	defer resp.Body.Close()

	log.Debug("Request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return perrors.FromStatus(resp.StatusCode, detailOf(raw))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return perrors.Internal(fmt.Sprintf("decode %s response: %v", path, err))
	}
	return nil
}

// detailOf pulls the FastAPI-style {"detail": ...} message out of an error body.
func detailOf(raw []byte) string {
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Detail != nil {
		if s, ok := er.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(er.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(raw))
}
