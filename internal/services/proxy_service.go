package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"shopify-app-api/internal/adapters/credentials"
	"shopify-app-api/internal/signature"
)

// Defaults used when a proxy request body does not name a call
const (
	DefaultProxyEndpoint = "products.json"
	DefaultProxyMethod   = http.MethodGet
)

// proxyService implements the ProxyService interface
type proxyService struct {
	secret    string
	store     CredentialStore
	shopify   ShopifyAPI
	validator *validator.Validate
}

// NewProxyService creates a new app proxy service instance
func NewProxyService(secret string, store CredentialStore, api ShopifyAPI) ProxyService {
	return &proxyService{
		secret:    secret,
		store:     store,
		shopify:   api,
		validator: newValidator(),
	}
}

// Relay verifies the app proxy signature, loads the shop's token and performs
// the requested Admin API call. A shop without a stored token fails before
// any upstream request is made.
func (s *proxyService) Relay(ctx context.Context, req *ProxyRequest) (json.RawMessage, error) {
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	if !signature.VerifyQuery(req.Params, s.secret, req.Signature, signature.ProxyScheme) {
		logrus.WithField("shop", req.Shop).Warn("Invalid app proxy signature")
		return nil, ErrInvalidSignature
	}

	token, err := s.store.Get(ctx, req.Shop, credentials.FieldAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load access token: %w", err)
	}

	call, err := parseProxyCall(req.Body)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"shop":     req.Shop,
		"endpoint": call.Endpoint,
		"method":   call.Method,
	}).Info("Relaying app proxy request")

	return s.shopify.Call(ctx, req.Shop, token, call.Endpoint, call.Method, nil)
}

func parseProxyCall(body []byte) (*ProxyCall, error) {
	call := &ProxyCall{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, call); err != nil {
			return nil, fmt.Errorf("%w: proxy body is not valid JSON", ErrInvalidInput)
		}
	}
	if call.Endpoint == "" {
		call.Endpoint = DefaultProxyEndpoint
	}
	if call.Method == "" {
		call.Method = DefaultProxyMethod
	}
	return call, nil
}
