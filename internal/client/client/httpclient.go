package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/newsreader/internal/client/models"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxBodySize = 4 << 20

	unauthorizedMessage = "Unauthorized"
)

type tokenKey struct{}

// WithAccessToken returns a context carrying the bearer token used by
// authenticated calls.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessToken returns the token attached by WithAccessToken, or "".
func AccessToken(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

type envelope struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Data        json.RawMessage `json:"data"`
	AccessToken string          `json:"access_token"`
	User        *models.User    `json:"user"`
}

type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// NewHTTPClient builds a client for the backend at baseURL. A positive
// timeout bounds every individual request.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/login", nil, body, false)
	if err != nil {
		return nil, err
	}
	return authResult(env)
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if req.Interests == nil {
		req.Interests = []int64{}
	}
	env, err := c.do(ctx, http.MethodPost, "/signup", nil, req, false)
	if err != nil {
		return nil, err
	}
	return authResult(env)
}

func (c *HTTPClient) ListInterests(ctx context.Context) ([]models.InterestCategory, error) {
	env, err := c.do(ctx, http.MethodGet, "/interests", nil, nil, false)
	if err != nil {
		return nil, err
	}
	return decodeData[models.InterestCategory](env)
}

func (c *HTTPClient) MyInterests(ctx context.Context) ([]models.InterestCategory, error) {
	env, err := c.do(ctx, http.MethodGet, "/users/me/interests", nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeData[models.InterestCategory](env)
}

func (c *HTTPClient) ReplaceMyInterests(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	body := map[string][]int64{"interest_ids": ids}
	_, err := c.do(ctx, http.MethodPut, "/users/me/interests", nil, body, true)
	return err
}

func (c *HTTPClient) News(ctx context.Context, category string) ([]models.Article, error) {
	q := url.Values{"category": []string{category}}
	env, err := c.do(ctx, http.MethodGet, "/news", q, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeData[models.Article](env)
}

func (c *HTTPClient) Bookmarks(ctx context.Context) ([]models.Article, error) {
	env, err := c.do(ctx, http.MethodGet, "/bookmarks", nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeData[models.Article](env)
}

func (c *HTTPClient) AddBookmark(ctx context.Context, articleID int64) error {
	_, err := c.do(ctx, http.MethodPost, bookmarkPath(articleID), nil, nil, true)
	return err
}

func (c *HTTPClient) RemoveBookmark(ctx context.Context, articleID int64) error {
	_, err := c.do(ctx, http.MethodDelete, bookmarkPath(articleID), nil, nil, true)
	return err
}

func bookmarkPath(id int64) string {
	return "/bookmarks/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, bearer bool) (*envelope, error) {
	var token string
	if bearer {
		token = AccessToken(ctx)
		if token == "" {
			return nil, ErrUnauthorized
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, c.mapError(ctx, err)
	}
	if len(raw) > maxBodySize {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, maxBodySize)
	}

	return c.mapResponse(resp.StatusCode, raw, bearer)
}

func (c *HTTPClient) mapResponse(status int, raw []byte, bearer bool) (*envelope, error) {
	if bearer && (status == http.StatusUnauthorized || status == http.StatusForbidden) {
		return nil, ErrUnauthorized
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status < 200 || status > 299 {
		if decodeErr != nil {
			return nil, &RemoteError{Status: status}
		}
		return nil, &RemoteError{Status: status, Message: env.Message}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}

	if !env.Success {
		if bearer && strings.EqualFold(env.Message, unauthorizedMessage) {
			return nil, ErrUnauthorized
		}
		return nil, &RemoteError{Status: status, Message: env.Message}
	}
	return &env, nil
}

// mapError classifies a transport failure. ctx is the per-request context.
func (c *HTTPClient) mapError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		var ne interface{ Timeout() bool }
		if errors.As(err, &ne) && ne.Timeout() {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func authResult(env *envelope) (*AuthResult, error) {
	if env.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", ErrMalformedResponse)
	}
	return &AuthResult{Token: env.AccessToken, User: env.User}, nil
}

func decodeData[T any](env *envelope) ([]T, error) {
	out := []T{}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrMalformedResponse, err)
	}
	return out, nil
}
