package paystack

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

	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
)

const (
	defaultBaseURL        = "https://api.paystack.co"
	defaultRequestTimeout = 10 * time.Second

	// DefaultCurrency is the settlement currency for the storefront.
	// Amounts on the wire are always in the currency's minor unit.
	DefaultCurrency = "KES"
)

var errSecretKeyRequired = errors.New("paystack secret key is required")

// Client wraps the hosted-checkout gateway endpoints used by the storefront.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
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

// WithBaseURL overrides the gateway base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the gateway client given the account's secret key.
func NewClient(secretKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(secretKey)
	if trimmedKey == "" {
		return nil, errSecretKeyRequired
	}

	client := &Client{
		secretKey:  trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// SigningSecret returns the key webhooks are signed with. Paystack signs
// notifications with the same secret used for API calls.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.secretKey
}

// InitializeRequest is the payload for creating a hosted-checkout transaction.
type InitializeRequest struct {
	Email       string `json:"email"`
	AmountMinor int64  `json:"amount"`
	CallbackURL string `json:"callback_url,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Metadata    any    `json:"metadata,omitempty"`
}

// InitializeData is the gateway's response to a successful initialization.
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyData is the normalized verify-by-reference response.
type VerifyData struct {
	Status        string `json:"status"`
	Reference     string `json:"reference"`
	AmountMinor   int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaidAt        string `json:"paid_at"`
	CustomerEmail string `json:"customer_email"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a transaction and returns the hosted-checkout redirect data.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeData, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "paystack client not configured")
	}
	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "marshal initialize request")
	}

	envelope, err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var data InitializeData
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode initialize response")
		}
	}

	if !envelope.Status || data.AuthorizationURL == "" {
		msg := envelope.Message
		if msg == "" {
			msg = "failed to initialize transaction"
		}
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, msg)
	}

	return &data, nil
}

// Verify fetches the settled state of a transaction by its reference.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "paystack client not configured")
	}
	trimmed := strings.TrimSpace(reference)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction reference is required")
	}

	envelope, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(trimmed), nil)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		PaidAt    string `json:"paid_at"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &raw); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode verify response")
		}
	}

	if !envelope.Status || raw.Reference == "" {
		msg := envelope.Message
		if msg == "" {
			msg = "transaction verification failed"
		}
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, msg)
	}

	return &VerifyData{
		Status:        raw.Status,
		Reference:     raw.Reference,
		AmountMinor:   raw.Amount,
		Currency:      raw.Currency,
		PaidAt:        raw.PaidAt,
		CustomerEmail: raw.Customer.Email,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*apiEnvelope, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "build gateway request")
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "execute gateway request")
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope apiEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode gateway response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		}
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, msg)
	}

	return &envelope, nil
}
