// Package api is the typed HTTP client for the remote tracker API. Every
// authenticated call is gated by the session manager's refresh contract
// before any network I/O happens.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

// TokenSource yields the bearer token for outbound requests. Implemented
// by *session.Manager.
type TokenSource interface {
	RefreshToken(ctx context.Context) (string, error)
	HasToken() bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// ErrorResponse is the API's error body shape.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type AuthResponse struct {
	User        domain.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type YesterdayCheckResponse struct {
	HasData bool `json:"hasData"`
}

// NewClient creates an API client. The cookie jar carries the httpOnly
// refresh credential between calls, the Go analog of fetch's
// credentials: "include".
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// SetTokenSource wires the session manager in after construction; the
// manager itself needs the client as its Refresher, so the two are bound
// in two steps.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// --- auth (public endpoints, no bearer) ---

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.public(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.public(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh implements session.Refresher. The refresh credential rides the
// cookie jar; an explicit 401/403 maps to domain.ErrAuthDenied so the
// session manager can distinguish a dead session from a transient failure.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	var resp RefreshResponse
	err := c.public(ctx, http.MethodPost, "/auth/refresh", nil, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return "", domain.ErrAuthDenied
		}
		return "", err
	}
	return resp.AccessToken, nil
}

// --- sleep records ---

func (c *Client) GetSleepRecords(ctx context.Context) ([]domain.DailyEntry, error) {
	var entries []domain.DailyEntry
	if err := c.authed(ctx, http.MethodGet, "/sleep-records", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) PutSleep(ctx context.Context, date string, input domain.SleepInput) error {
	return c.authed(ctx, http.MethodPut, "/sleep-records/"+url.PathEscape(date), input, nil)
}

func (c *Client) PatchHabit(ctx context.Context, date, habitKey string, value bool) error {
	path := fmt.Sprintf("/sleep-records/%s/habits/%s", url.PathEscape(date), url.PathEscape(habitKey))
	return c.authed(ctx, http.MethodPatch, path, map[string]bool{"value": value}, nil)
}

func (c *Client) DeleteHabitForDay(ctx context.Context, date, habitKey string) error {
	path := fmt.Sprintf("/sleep-records/%s/habits/%s", url.PathEscape(date), url.PathEscape(habitKey))
	return c.authed(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) CheckYesterday(ctx context.Context) (bool, error) {
	var resp YesterdayCheckResponse
	if err := c.authed(ctx, http.MethodGet, "/sleep-records/yesterday/check", nil, &resp); err != nil {
		return false, err
	}
	return resp.HasData, nil
}

func (c *Client) GetSleepStats(ctx context.Context) (*domain.SleepStats, error) {
	var stats domain.SleepStats
	if err := c.authed(ctx, http.MethodGet, "/sleep-stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- habit catalog ---

func (c *Client) GetHabits(ctx context.Context) ([]domain.HabitDefinition, error) {
	var habits []domain.HabitDefinition
	if err := c.authed(ctx, http.MethodGet, "/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (c *Client) AddHabit(ctx context.Context, label string) (*domain.HabitDefinition, error) {
	var habit domain.HabitDefinition
	if err := c.authed(ctx, http.MethodPost, "/habits", map[string]string{"label": label}, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (c *Client) RenameHabit(ctx context.Context, key, label string) error {
	return c.authed(ctx, http.MethodPatch, "/habits/"+url.PathEscape(key), map[string]string{"label": label}, nil)
}

func (c *Client) DeleteHabit(ctx context.Context, key string) error {
	return c.authed(ctx, http.MethodDelete, "/habits/"+url.PathEscape(key), nil, nil)
}

// --- transport ---

// authed resolves a token through the session manager before touching the
// network. No resolvable token short-circuits locally: a still-held token
// means the refresh failed transiently (retry later), no token at all
// means the user must authenticate.
func (c *Client) authed(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		if c.tokens.HasToken() {
			return domain.ErrTemporarilyUnavailable
		}
		return domain.ErrNotAuthorized
	}
	return c.do(ctx, method, path, token, body, out)
}

func (c *Client) public(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, path, "", body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody ErrorResponse
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			if json.Unmarshal(data, &errBody) == nil {
				apiErr.Code = errBody.Code
				apiErr.Message = errBody.Message
			} else {
				apiErr.Message = string(data)
			}
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
