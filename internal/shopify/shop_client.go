package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// TokenReader loads a stored access token for a shop.
type TokenReader interface {
	Get(ctx context.Context, tenant, field string) (string, error)
}

// ShopClient binds a Client to one shop and memoizes that shop's access token
// for its own lifetime. A fresh ShopClient always reloads the token.
type ShopClient struct {
	client *Client
	tokens TokenReader
	shop   string
	field  string

	mu    sync.Mutex
	token string
}

// NewShopClient creates a client for shop. field names the stored token
// parameter, normally "access-token".
func NewShopClient(client *Client, tokens TokenReader, shop, field string) *ShopClient {
	return &ShopClient{
		client: client,
		tokens: tokens,
		shop:   shop,
		field:  field,
	}
}

// Shop returns the shop this client is bound to.
func (s *ShopClient) Shop() string {
	return s.shop
}

// AccessToken returns the shop's token, loading it on first use.
func (s *ShopClient) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	token, err := s.tokens.Get(ctx, s.shop, s.field)
	if err != nil {
		return "", fmt.Errorf("failed to load access token for %s: %w", s.shop, err)
	}
	s.token = token
	return token, nil
}

// Request performs a REST call for the bound shop.
func (s *ShopClient) Request(ctx context.Context, endpoint, method string, data interface{}) (json.RawMessage, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.Call(ctx, s.shop, token, endpoint, method, data)
}

// GraphQL performs a GraphQL query for the bound shop.
func (s *ShopClient) GraphQL(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.GraphQL(ctx, s.shop, token, query, variables)
}

// Products lists products.
func (s *ShopClient) Products(ctx context.Context, limit int) (json.RawMessage, error) {
	return s.Request(ctx, fmt.Sprintf("products.json?limit=%d", limit), http.MethodGet, nil)
}

// Product fetches one product.
func (s *ShopClient) Product(ctx context.Context, id int64) (json.RawMessage, error) {
	return s.Request(ctx, fmt.Sprintf("products/%d.json", id), http.MethodGet, nil)
}

// Orders lists orders with the given status filter ("any", "open", ...).
func (s *ShopClient) Orders(ctx context.Context, limit int, status string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("status", status)
	return s.Request(ctx, "orders.json?"+q.Encode(), http.MethodGet, nil)
}

// Order fetches one order.
func (s *ShopClient) Order(ctx context.Context, id int64) (json.RawMessage, error) {
	return s.Request(ctx, fmt.Sprintf("orders/%d.json", id), http.MethodGet, nil)
}

// CreateProduct creates a product from the given attributes.
func (s *ShopClient) CreateProduct(ctx context.Context, product map[string]interface{}) (json.RawMessage, error) {
	return s.Request(ctx, "products.json", http.MethodPost, map[string]interface{}{"product": product})
}

// UpdateProduct updates a product.
func (s *ShopClient) UpdateProduct(ctx context.Context, id int64, product map[string]interface{}) (json.RawMessage, error) {
	return s.Request(ctx, fmt.Sprintf("products/%d.json", id), http.MethodPut, map[string]interface{}{"product": product})
}

// DeleteProduct deletes a product.
func (s *ShopClient) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.Request(ctx, fmt.Sprintf("products/%d.json", id), http.MethodDelete, nil)
	return err
}
