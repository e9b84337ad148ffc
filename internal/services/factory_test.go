package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceContainer(t *testing.T) {
	store, _ := newStore()
	api := &fakeShopify{}
	cfg := &ServiceConfig{OAuth: &OAuthConfig{APIKey: "k", APISecret: "s"}}

	tests := []struct {
		name    string
		store   CredentialStore
		api     ShopifyAPI
		config  *ServiceConfig
		wantErr bool
	}{
		{"valid", store, api, cfg, false},
		{"nil store", nil, api, cfg, true},
		{"nil api", store, nil, cfg, true},
		{"nil config", store, api, nil, true},
		{"missing oauth", store, api, &ServiceConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := NewServiceContainer(tt.store, tt.api, tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, container.Validate())
		})
	}
}

func TestNewServiceContainer_StrictState(t *testing.T) {
	store, _ := newStore()
	container, err := NewServiceContainer(store, &fakeShopify{}, &ServiceConfig{
		OAuth:       &OAuthConfig{APIKey: "k", APISecret: "s"},
		StrictState: true,
	})
	require.NoError(t, err)

	svc := container.OAuthService.(*oauthService)
	assert.IsType(t, CookieStateVerifier{}, svc.state)
}

func TestServiceContainer_ValidateNil(t *testing.T) {
	assert.Error(t, (&ServiceContainer{}).Validate())
}
