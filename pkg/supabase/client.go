package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/westwooddairy/storefront-backend/pkg/config"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
)

const (
	restPathPrefix        = "/rest/v1/"
	defaultRequestTimeout = 10 * time.Second
	errorBodyReadLimit    = int64(1024)
)

// Client is a thin PostgREST client for the managed datastore. It signs
// requests with the service-role key when one is configured, otherwise with
// the anonymous key.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	hasServiceRole bool
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a datastore client from configuration. It returns nil
// (and no error) when the datastore is not configured at all, so callers can
// treat persistence as optional.
func NewClient(cfg config.SupabaseConfig, opts ...Option) *Client {
	if !cfg.Configured() {
		return nil
	}

	key := strings.TrimSpace(cfg.ServiceRoleKey)
	hasServiceRole := key != ""
	if key == "" {
		key = strings.TrimSpace(cfg.AnonKey)
	}

	client := &Client{
		httpClient:     &http.Client{Timeout: defaultRequestTimeout},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		apiKey:         key,
		hasServiceRole: hasServiceRole,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client
}

// HasServiceRole reports whether privileged writes (row updates bypassing
// row-level security) are possible.
func (c *Client) HasServiceRole() bool {
	return c != nil && c.hasServiceRole
}

// Insert adds a single record to table.
func (c *Client) Insert(ctx context.Context, table string, record any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "datastore client not configured")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal record")
	}

	return c.send(ctx, http.MethodPost, c.baseURL+restPathPrefix+url.PathEscape(table), payload)
}

// UpdateEq patches every row of table whose column equals value.
func (c *Client) UpdateEq(ctx context.Context, table, column, value string, patch any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "datastore client not configured")
	}

	payload, err := json.Marshal(patch)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal patch")
	}

	target := fmt.Sprintf("%s%s%s?%s=eq.%s",
		c.baseURL, restPathPrefix, url.PathEscape(table),
		url.QueryEscape(column), url.QueryEscape(value))
	return c.send(ctx, http.MethodPatch, target, payload)
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build datastore request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute datastore request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"datastore request failed")
	}

	return nil
}
