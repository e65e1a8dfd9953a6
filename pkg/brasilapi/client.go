package brasilapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-formfill/pkg/mask"
)

// DefaultBaseURL is the public BrasilAPI host.
const DefaultBaseURL = "https://brasilapi.com.br"

// Lookup fetches raw registry data for digit-only identifiers.
type Lookup interface {
	LookupCEP(ctx context.Context, cep string) (Payload, error)
	LookupCNPJ(ctx context.Context, cnpj string) (Payload, error)
}

// Client talks to BrasilAPI over HTTP. There is no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

var _ Lookup = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another host, e.g. a test server or a
// self-hosted mirror.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets a per-request timeout on a dedicated http.Client. Zero
// leaves requests bounded only by their context.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout <= 0 {
			return
		}
		clone := *c.httpClient
		clone.Timeout = timeout
		c.httpClient = &clone
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// NewClient builds a client with defaults plus overrides.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		userAgent:  "go-formfill",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// BaseURL reports the configured host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LookupCEP fetches /api/cep/v1/{cep}. Masked input is accepted.
func (c *Client) LookupCEP(ctx context.Context, cep string) (Payload, error) {
	digits := mask.OnlyDigits(cep)
	if len(digits) != mask.CEPLength {
		return nil, fmt.Errorf("%w: cep has %d digits", ErrInvalidLength, len(digits))
	}
	return c.get(ctx, "cep", "/api/cep/v1/"+digits)
}

// LookupCNPJ fetches /api/cnpj/v1/{cnpj}. Masked input is accepted.
func (c *Client) LookupCNPJ(ctx context.Context, cnpj string) (Payload, error) {
	digits := mask.OnlyDigits(cnpj)
	if len(digits) != mask.CNPJLength {
		return nil, fmt.Errorf("%w: cnpj has %d digits", ErrInvalidLength, len(digits))
	}
	return c.get(ctx, "cnpj", "/api/cnpj/v1/"+digits)
}

func (c *Client) get(ctx context.Context, resource, path string) (Payload, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("brasilapi: build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brasilapi: %s request: %w", resource, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
		return nil, &StatusError{Code: res.StatusCode, Resource: resource}
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("brasilapi: decode %s response: %w", resource, err)
	}
	if payload == nil {
		payload = Payload{}
	}
	return payload, nil
}
