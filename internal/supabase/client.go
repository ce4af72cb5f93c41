// Package supabase talks to the managed trial_registrations table through
// its PostgREST endpoint.
package supabase

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

	"github.com/essenciabjj/trial/internal/models"
)

const table = "trial_registrations"

var ErrEmptyResult = errors.New("insert returned no row")

// APIError is a non-2xx answer from the REST endpoint.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: HTTP %d", e.Status)
	}
	return fmt.Sprintf("supabase: HTTP %d: %s (%s)", e.Status, e.Message, e.Code)
}

type Client struct {
	baseURL string
	key     string
	httpc   *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpc = c }
}

// NewClient needs the project URL and its anon key.
func NewClient(baseURL, key string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) endpoint(query url.Values) string {
	u := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Insert posts reg and copies back the row the table stored.
func (c *Client) Insert(ctx context.Context, reg *models.Registration) error {
	var rows []models.Registration
	if err := c.do(ctx, http.MethodPost, c.endpoint(nil), []models.Registration{*reg}, &rows); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	if len(rows) == 0 {
		return ErrEmptyResult
	}
	*reg = rows[0]
	return nil
}

// List returns every registration ordered by created_at, newest first.
func (c *Client) List(ctx context.Context) ([]models.Registration, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var rows []models.Registration
	if err := c.do(ctx, http.MethodGet, c.endpoint(q), nil, &rows); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return rows, nil
}
