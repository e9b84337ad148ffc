package services

import (
	"context"
	"encoding/json"
	"net/http"

	"shopify-app-api/internal/adapters/credentials"
	"shopify-app-api/internal/shopify"
)

// CredentialStore is the subset of the credential store the services need
type CredentialStore interface {
	Get(ctx context.Context, tenant, field string) (string, error)
	DeleteAll(ctx context.Context, tenant string) ([]string, error)
	SaveCredential(ctx context.Context, tenant string, cred *credentials.Credential) error
}

// ShopifyAPI is the subset of the Shopify client the services need
type ShopifyAPI interface {
	Call(ctx context.Context, shop, token, resourcePath, method string, body interface{}) (json.RawMessage, error)
	ExchangeCode(ctx context.Context, shop, code string) (*shopify.TokenResponse, error)
}

// OAuthService defines the app installation flow
type OAuthService interface {
	// Initiate validates the shop and builds the authorization redirect
	Initiate(ctx context.Context, req *InitiateRequest) (*Redirect, error)

	// Complete verifies the callback, exchanges the code and stores the token
	Complete(ctx context.Context, req *CallbackRequest) (*Redirect, error)
}

// PrivacyService defines the mandatory privacy webhook handling
type PrivacyService interface {
	// Handle verifies the webhook and dispatches it by topic. The returned
	// value is the JSON response body.
	Handle(ctx context.Context, req *WebhookRequest) (interface{}, error)
}

// ProxyService defines the storefront app proxy relay
type ProxyService interface {
	// Relay verifies the proxy request and forwards it to the Admin API
	Relay(ctx context.Context, req *ProxyRequest) (json.RawMessage, error)
}

// Request/Response types

// InitiateRequest starts an installation
type InitiateRequest struct {
	Shop string `json:"shop" validate:"required,shopdomain"`

	// DomainName and Stage come from the invoking gateway and form the
	// callback base URL.
	DomainName string `json:"domain_name"`
	Stage      string `json:"stage"`
}

// CallbackRequest carries the OAuth callback query
type CallbackRequest struct {
	Shop  string `json:"shop" validate:"required,shopdomain"`
	Code  string `json:"code" validate:"required"`
	HMAC  string `json:"hmac" validate:"required"`
	State string `json:"state"`

	// StateCookie is the state value echoed back by the browser cookie, if any
	StateCookie string `json:"-"`

	// Params is the full query the signature covers
	Params map[string]string `json:"-"`
}

// ProxyRequest carries a storefront app proxy request
type ProxyRequest struct {
	Shop      string            `json:"shop" validate:"required,shopdomain"`
	Signature string            `json:"signature" validate:"required"`
	Params    map[string]string `json:"-"`
	Body      []byte            `json:"-"`
}

// ProxyCall is the optional JSON body of a proxy request
type ProxyCall struct {
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
}

// WebhookRequest carries a privacy webhook
type WebhookRequest struct {
	Topic      string
	Signature  string
	ShopDomain string
	Body       []byte
}

// Redirect is a 302 instruction returned by the OAuth flow
type Redirect struct {
	Location string
	Cookies  []*http.Cookie
}
