// Package api is the HTTP client for the Quran Q&A backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/xonecas/tilawa/internal/constants"
)

var (
	// ErrNetwork wraps transport failures and non-2xx responses.
	ErrNetwork = errors.New("network failure")
	// ErrMalformedResponse wraps responses that don't match the expected schema.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned for non-2xx responses. It matches ErrNetwork.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Is reports whether target is ErrNetwork.
func (e *StatusError) Is(target error) bool {
	return target == ErrNetwork
}

// Client talks to the Q&A backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit paces outgoing requests. A non-positive limit disables pacing.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ask posts a question to /ask.
func (c *Client) Ask(ctx context.Context, question string) (*AskResponse, error) {
	var resp AskResponse
	if err := c.do(ctx, http.MethodPost, "/ask", AskRequest{Question: question}, &resp); err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}
	if err := resp.validate(); err != nil {
		return nil, fmt.Errorf("ask: %w", err)
	}
	return &resp, nil
}

// Categories fetches /categories, ordered by category ID.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var raw map[string]categoryPayload
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &raw); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return categoriesFromPayload(raw), nil
}

// DailyFacts fetches /daily-fact. Both {fact} and {facts} shapes are accepted.
func (c *Client) DailyFacts(ctx context.Context) ([]string, error) {
	var payload dailyFactPayload
	if err := c.do(ctx, http.MethodGet, "/daily-fact", nil, &payload); err != nil {
		return nil, fmt.Errorf("daily fact: %w", err)
	}
	return payload.facts(), nil
}

// PopularQuestions fetches /popular-questions.
func (c *Client) PopularQuestions(ctx context.Context) ([]string, error) {
	var payload QuestionsResponse
	if err := c.do(ctx, http.MethodGet, "/popular-questions", nil, &payload); err != nil {
		return nil, fmt.Errorf("popular questions: %w", err)
	}
	return nonEmpty(payload.Questions), nil
}

// Search posts a query to /search. Queries shorter than two characters
// return no results without a request.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < constants.MinSearchQueryLen {
		return nil, nil
	}

	var payload SearchResponse
	if err := c.do(ctx, http.MethodPost, "/search", SearchRequest{Query: query}, &payload); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]SearchResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		if strings.TrimSpace(r.Question) == "" {
			continue
		}
		results = append(results, r)
		if len(results) == constants.MaxSearchResults {
			break
		}
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrNetwork, err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodyBytes))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
