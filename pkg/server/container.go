package server

import (
	"context"
	"fmt"

	"shopify-app-api/internal/adapters/credentials"
	"shopify-app-api/internal/config"
	"shopify-app-api/internal/services"
	"shopify-app-api/internal/shopify"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Store          *credentials.Store
	Shopify        *shopify.Client
	OAuthService   services.OAuthService
	PrivacyService services.PrivacyService
	ProxyService   services.ProxyService
}

// NewContainer creates a new dependency injection container over the
// configured credential backend
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	store, err := credentials.NewFromConfig(ctx, &credentials.StoreConfig{
		Type:   cfg.Store.Type,
		Prefix: cfg.Store.Prefix,
		Region: cfg.Store.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}

	return NewContainerWithStore(cfg, store, nil)
}

// NewContainerWithStore wires the services over an existing store. A nil
// client is built from cfg.
func NewContainerWithStore(cfg *config.Config, store *credentials.Store, client *shopify.Client) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if client == nil {
		client = shopify.NewClient(shopify.Config{
			APIKey:     cfg.Shopify.APIKey,
			APISecret:  cfg.Shopify.APISecret,
			APIVersion: cfg.Shopify.APIVersion,
			Timeout:    cfg.Shopify.HTTPTimeout,
		})
	}

	serviceConfig := &services.ServiceConfig{
		OAuth: &services.OAuthConfig{
			APIKey:      cfg.Shopify.APIKey,
			APISecret:   cfg.Shopify.APISecret,
			Scopes:      cfg.Shopify.Scopes,
			FrontendURL: cfg.FrontendURL,
		},
		StrictState: cfg.OAuthStateCheck,
	}

	serviceContainer, err := services.NewServiceContainer(store, client, serviceConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}
	if err := serviceContainer.Validate(); err != nil {
		return nil, err
	}

	return &Container{
		Config:         cfg,
		Store:          store,
		Shopify:        client,
		OAuthService:   serviceContainer.OAuthService,
		PrivacyService: serviceContainer.PrivacyService,
		ProxyService:   serviceContainer.ProxyService,
	}, nil
}

// ShopClient returns a client bound to one shop's stored token
func (c *Container) ShopClient(shop string) *shopify.ShopClient {
	return shopify.NewShopClient(c.Shopify, c.Store, shop, credentials.FieldAccessToken)
}
