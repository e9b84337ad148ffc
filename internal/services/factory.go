package services

import (
	"fmt"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	OAuthService   OAuthService
	PrivacyService PrivacyService
	ProxyService   ProxyService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	OAuth *OAuthConfig

	// StrictState enables the cookie comparison on OAuth callbacks
	StrictState bool
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(store CredentialStore, api ShopifyAPI, config *ServiceConfig) (*ServiceContainer, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store cannot be nil")
	}
	if api == nil {
		return nil, fmt.Errorf("shopify client cannot be nil")
	}
	if config == nil || config.OAuth == nil {
		return nil, fmt.Errorf("oauth configuration is required")
	}

	var state StateVerifier = NoopStateVerifier{}
	if config.StrictState {
		state = CookieStateVerifier{}
	}

	secret := config.OAuth.APISecret

	return &ServiceContainer{
		OAuthService:   NewOAuthService(config.OAuth, store, api, state),
		PrivacyService: NewPrivacyService(secret, store),
		ProxyService:   NewProxyService(secret, store, api),
	}, nil
}

// Validate validates that all services are properly initialized
func (sc *ServiceContainer) Validate() error {
	if sc.OAuthService == nil {
		return fmt.Errorf("oauth service is nil")
	}
	if sc.PrivacyService == nil {
		return fmt.Errorf("privacy service is nil")
	}
	if sc.ProxyService == nil {
		return fmt.Errorf("proxy service is nil")
	}
	return nil
}
