package shopify

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTokens struct {
	token string
	err   error
	calls int
}

func (c *countingTokens) Get(ctx context.Context, tenant, field string) (string, error) {
	c.calls++
	return c.token, c.err
}

func TestShopClient_MemoizesToken(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		assert.Equal(t, "shpat", r.Header.Get(AccessTokenHeader))
		_, _ = w.Write([]byte(`{}`))
	})
	tokens := &countingTokens{token: "shpat"}
	sc := NewShopClient(c, tokens, "shop.myshopify.com", "access-token")

	ctx := context.Background()
	_, err := sc.Products(ctx, 50)
	require.NoError(t, err)
	_, err = sc.Orders(ctx, 10, "any")
	require.NoError(t, err)
	require.NoError(t, sc.DeleteProduct(ctx, 7))

	assert.Equal(t, 1, tokens.calls)
	assert.Equal(t, []string{
		"/admin/api/2024-01/products.json?limit=50",
		"/admin/api/2024-01/orders.json?limit=10&status=any",
		"/admin/api/2024-01/products/7.json",
	}, paths)

	fresh := NewShopClient(c, tokens, "shop.myshopify.com", "access-token")
	_, err = fresh.Product(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, tokens.calls)
}

func TestShopClient_TokenFailureSkipsUpstream(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	missing := errors.New("parameter not found")
	sc := NewShopClient(c, &countingTokens{err: missing}, "shop.myshopify.com", "access-token")

	_, err := sc.GraphQL(context.Background(), "{ shop { name } }", nil)
	assert.ErrorIs(t, err, missing)
	assert.False(t, called)
}
