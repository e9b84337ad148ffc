package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"shopify-app-api/internal/adapters/credentials"
	"shopify-app-api/internal/shopify"
	"shopify-app-api/internal/signature"
)

const (
	testSecret = "abc"
	testShop   = "test-shop.myshopify.com"
)

type apiCall struct {
	Shop, Token, Path, Method string
}

// fakeShopify records calls and returns canned results.
type fakeShopify struct {
	calls       []apiCall
	response    json.RawMessage
	callErr     error
	exchanged   []string
	token       *shopify.TokenResponse
	exchangeErr error
}

func (f *fakeShopify) Call(ctx context.Context, shop, token, resourcePath, method string, body interface{}) (json.RawMessage, error) {
	f.calls = append(f.calls, apiCall{Shop: shop, Token: token, Path: resourcePath, Method: method})
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.response, nil
}

func (f *fakeShopify) ExchangeCode(ctx context.Context, shop, code string) (*shopify.TokenResponse, error) {
	f.exchanged = append(f.exchanged, code)
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func newStore() (*credentials.Store, *credentials.MemoryStore) {
	backend := credentials.NewMemoryStore()
	return credentials.NewStore(backend, credentials.DefaultPrefix), backend
}

func seedCredential(t *testing.T, store *credentials.Store, shop string) {
	t.Helper()
	require.NoError(t, store.SaveCredential(context.Background(), shop, &credentials.Credential{
		AccessToken: "shpat_seed",
		Scopes:      "read_products",
	}))
}

func signedCallback(params map[string]string) map[string]string {
	params["hmac"] = signature.SignQuery(params, testSecret, signature.CallbackScheme)
	return params
}
