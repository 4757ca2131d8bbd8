// Package apiclient is a Go client for the task manager API. It holds the
// access token obtained at login and sends it as a Bearer header until Logout.
package apiclient

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
	"sync"
	"time"
)

// ErrNotLoggedIn is returned by calls that need a token while none is attached.
var ErrNotLoggedIn = errors.New("apiclient: no access token attached")

// Error is a non-2xx API response. Status is the stable kind string, e.g. "TokenExpired".
type Error struct {
	Code    int
	Status  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Code, e.Status, e.Message)
}

// IsStatus reports whether err is an *Error with the given kind.
func IsStatus(err error, status string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	httpClient *http.Client
	baseURL    string

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a client for baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the attached token and its expiry. ok is false when logged out.
func (c *Client) Token() (token string, expiresAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.expiresAt, c.token != ""
}

// SetToken attaches a token obtained elsewhere.
func (c *Client) SetToken(token string, expiresAt time.Time) {
	c.mu.Lock()
	c.token, c.expiresAt = token, expiresAt
	c.mu.Unlock()
}

// Logout detaches the token. Tokens are stateless, so the server is not contacted.
func (c *Client) Logout() {
	c.SetToken("", time.Time{})
}

// Register creates an account and attaches the token issued with it.
func (c *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	var out struct {
		User User `json:"user"`
		AccessToken
	}
	body := map[string]string{"email": email, "password": password, "name": name}
	if _, err := c.do(ctx, http.MethodPost, "/register", body, &out, false); err != nil {
		return nil, err
	}
	c.SetToken(out.Token, out.ExpiresAt)
	return &out.User, nil
}

// Login exchanges credentials for a token and attaches it.
func (c *Client) Login(ctx context.Context, email, password string) (AccessToken, error) {
	var tok AccessToken
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/login", body, &tok, false); err != nil {
		return AccessToken{}, err
	}
	c.SetToken(tok.Token, tok.ExpiresAt)
	return tok, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if _, err := c.do(ctx, http.MethodGet, "/profile", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (*User, error) {
	var u User
	if _, err := c.do(ctx, http.MethodPut, "/profile", in, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteAccount removes the caller's account and detaches the token.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, "/profile", nil, nil, true); err != nil {
		return err
	}
	c.Logout()
	return nil
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodPost, "/tasks", in, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns one page of the caller's tasks. Zero-valued filter fields are omitted.
func (c *Client) ListTasks(ctx context.Context, f TaskFilter) ([]Task, PageMeta, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	if f.Page > 0 {
		q.Set("page", fmt.Sprint(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", fmt.Sprint(f.PerPage))
	}
	path := "/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var tasks []Task
	env, err := c.do(ctx, http.MethodGet, path, nil, &tasks, true)
	if err != nil {
		return nil, PageMeta{}, err
	}
	var meta PageMeta
	if len(env.Meta) > 0 {
		if err := json.Unmarshal(env.Meta, &meta); err != nil {
			return nil, PageMeta{}, fmt.Errorf("decode meta: %w", err)
		}
	}
	return tasks, meta, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in TaskInput) (*Task, error) {
	var t Task
	if _, err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), in, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, true)
	return err
}

func (c *Client) SearchTasks(ctx context.Context, query string) ([]Task, error) {
	var tasks []Task
	if _, err := c.do(ctx, http.MethodGet, "/tasks/search?q="+url.QueryEscape(query), nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Status  string          `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

// do sends one request and decodes the envelope's data into result.
// authed requests fail with ErrNotLoggedIn when no token is attached.
func (c *Client) do(ctx context.Context, method, path string, body, result any, authed bool) (*envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, _, ok := c.Token()
		if !ok {
			return nil, ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return &envelope{Code: resp.StatusCode}, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &Error{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Code: resp.StatusCode, Status: env.Status, Message: env.Message}
	}
	if result != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return &env, nil
}
