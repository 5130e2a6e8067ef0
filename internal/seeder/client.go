package seeder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/roommatch/internal/domain/ranking"
)

// ErrIncompleteProfile is returned by Matches when the service refuses an
// incomplete requester.
var ErrIncompleteProfile = errors.New("seeder: requester profile incomplete")

// Client talks to the matching API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client with the given per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type matchesResponse struct {
	Matches   []ranking.RankedMatch `json:"matches"`
	Completed bool                  `json:"completed"`
}

// Healthy reports whether /healthz answers 200.
func (c *Client) Healthy(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

// PutProfile stores p under p.ID.
func (c *Client) PutProfile(ctx context.Context, p Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, "/profiles/"+url.PathEscape(p.ID), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Matches fetches the ranked matches of id.
func (c *Client) Matches(ctx context.Context, id string, limit int) ([]ranking.RankedMatch, error) {
	path := "/matches/" + url.PathEscape(id)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var out matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return out.Matches, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	var e apiError
	_ = json.NewDecoder(resp.Body).Decode(&e)
	if e.Code == "incomplete_profile" {
		return ErrIncompleteProfile
	}
	return fmt.Errorf("status %d: %s: %s", resp.StatusCode, e.Code, e.Message)
}
