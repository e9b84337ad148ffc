// Package shopify is a thin client for the Shopify Admin REST and GraphQL APIs
// and the OAuth token exchange endpoint.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	// DefaultAPIVersion is the Admin API version used when none is configured.
	DefaultAPIVersion = "2024-01"

	// AccessTokenHeader carries the per-shop access token.
	AccessTokenHeader = "X-Shopify-Access-Token"

	defaultTimeout = 30 * time.Second
)

// Config holds the app credentials and API settings.
type Config struct {
	APIKey     string
	APISecret  string
	APIVersion string
	Timeout    time.Duration
}

// Client issues authenticated calls to the Shopify API. It holds no per-shop
// state; tokens are passed on every call.
type Client struct {
	config     Config
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sends every request to baseURL instead of https://<shop>.
// Used to point the client at a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewClient creates a new Shopify API client
func NewClient(config Config, opts ...Option) *Client {
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIVersion returns the configured Admin API version.
func (c *Client) APIVersion() string {
	return c.config.APIVersion
}

func (c *Client) shopURL(shop string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + shop
}

// RESTURL returns the Admin REST URL for resourcePath.
func (c *Client) RESTURL(shop, resourcePath string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.shopURL(shop), c.config.APIVersion, strings.TrimPrefix(resourcePath, "/"))
}

// GraphQLURL returns the Admin GraphQL endpoint for shop.
func (c *Client) GraphQLURL(shop string) string {
	return c.RESTURL(shop, "graphql.json")
}

// Call performs a REST request against the Admin API and returns the raw JSON response.
func (c *Client) Call(ctx context.Context, shop, token, resourcePath, method string, body interface{}) (json.RawMessage, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if method == "" {
		method = http.MethodGet
	}

	headers := map[string]string{AccessTokenHeader: token}
	return c.do(ctx, strings.ToUpper(method), c.RESTURL(shop, resourcePath), headers, body)
}

// GraphQL posts query to the Admin GraphQL endpoint and returns the data member.
// A response carrying an errors member fails with *GraphQLError.
func (c *Client) GraphQL(ctx context.Context, shop, token, query string, variables map[string]interface{}) (json.RawMessage, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	payload := map[string]interface{}{"query": query}
	if len(variables) > 0 {
		payload["variables"] = variables
	}

	headers := map[string]string{AccessTokenHeader: token}
	raw, err := c.do(ctx, http.MethodPost, c.GraphQLURL(shop), headers, payload)
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(raw)
	if errs := result.Get("errors"); errs.Exists() {
		return nil, &GraphQLError{Errors: errs.Raw}
	}

	data := result.Get("data")
	if !data.Exists() {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(data.Raw), nil
}

// TokenResponse is the body returned by the OAuth access token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ExchangeCode trades an authorization code for a permanent access token.
func (c *Client) ExchangeCode(ctx context.Context, shop, code string) (*TokenResponse, error) {
	payload := map[string]string{
		"client_id":     c.config.APIKey,
		"client_secret": c.config.APISecret,
		"code":          code,
	}

	raw, err := c.do(ctx, http.MethodPost, c.shopURL(shop)+"/admin/oauth/access_token", nil, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	var token TokenResponse
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", ErrInvalidResponse)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("failed to exchange code: %w: missing access_token", ErrInvalidResponse)
	}
	return &token, nil
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to Shopify failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Shopify response: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"method":      method,
		"url":         url,
		"status_code": resp.StatusCode,
		"latency_ms":  float64(time.Since(start).Nanoseconds()) / 1000000,
	}).Debug("Shopify API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if !gjson.ValidBytes(respBody) {
		return nil, ErrInvalidResponse
	}
	return json.RawMessage(respBody), nil
}
