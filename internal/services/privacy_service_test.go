package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-app-api/internal/adapters/credentials"
	"shopify-app-api/internal/models"
	"shopify-app-api/internal/signature"
)

func webhook(topic, shop string, body []byte) *WebhookRequest {
	return &WebhookRequest{
		Topic:      topic,
		ShopDomain: shop,
		Body:       body,
		Signature:  signature.SignBody(body, testSecret),
	}
}

func TestPrivacyService_InvalidSignature(t *testing.T) {
	store, backend := newStore()
	seedCredential(t, store, testShop)
	svc := NewPrivacyService(testSecret, store)

	req := webhook("shop/redact", testShop, []byte(`{"shop_domain":"test-shop.myshopify.com"}`))
	req.Body = []byte(`{"shop_domain":"other.myshopify.com"}`)

	_, err := svc.Handle(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, 3, backend.Count())

	req = webhook("shop/redact", testShop, []byte(`{}`))
	req.Signature = ""
	_, err = svc.Handle(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestPrivacyService_UnknownTopic(t *testing.T) {
	store, _ := newStore()
	svc := NewPrivacyService(testSecret, store)

	_, err := svc.Handle(context.Background(), webhook("orders/create", testShop, []byte(`{}`)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTopic)
	assert.Contains(t, err.Error(), "orders/create")
}

func TestPrivacyService_InvalidJSON(t *testing.T) {
	store, _ := newStore()
	svc := NewPrivacyService(testSecret, store)

	_, err := svc.Handle(context.Background(), webhook("customers/redact", testShop, []byte(`{not json`)))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPrivacyService_CustomerDataRequest(t *testing.T) {
	store, backend := newStore()
	seedCredential(t, store, testShop)
	svc := NewPrivacyService(testSecret, store)

	body := []byte(`{"shop_id":954889,"shop_domain":"test-shop.myshopify.com","customer":{"id":191167,"email":"john@example.com"}}`)
	out, err := svc.Handle(context.Background(), webhook("customers/data_request", testShop, body))
	require.NoError(t, err)

	resp, ok := out.(*models.CustomerDataResponse)
	require.True(t, ok)
	assert.Equal(t, json.RawMessage(`954889`), resp.ShopID)
	assert.Equal(t, json.RawMessage(`"test-shop.myshopify.com"`), resp.ShopDomain)
	assert.Equal(t, json.RawMessage(`191167`), resp.CustomerID)
	assert.Empty(t, resp.DataStored)
	assert.NotNil(t, resp.DataStored)
	assert.Equal(t, noCustomerDataMessage, resp.Message)
	assert.Equal(t, 3, backend.Count())

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"shop_id": 954889,
		"shop_domain": "test-shop.myshopify.com",
		"customer_id": 191167,
		"data_stored": [],
		"message": "`+noCustomerDataMessage+`"
	}`, string(encoded))
}

func TestPrivacyService_CustomerRedact(t *testing.T) {
	store, backend := newStore()
	seedCredential(t, store, testShop)
	svc := NewPrivacyService(testSecret, store)

	out, err := svc.Handle(context.Background(), webhook("customers/redact", testShop, []byte(`{"shop_domain":"test-shop.myshopify.com"}`)))
	require.NoError(t, err)

	resp, ok := out.(*models.CustomerRedactResponse)
	require.True(t, ok)
	assert.Equal(t, models.ActionNoneRequired, resp.ActionTaken)
	assert.Nil(t, resp.CustomerID)
	assert.Equal(t, 3, backend.Count())
}

func TestPrivacyService_ShopRedactDeletesEverything(t *testing.T) {
	store, backend := newStore()
	seedCredential(t, store, testShop)
	seedCredential(t, store, "other.myshopify.com")
	svc := NewPrivacyService(testSecret, store).(*privacyService)
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	body := []byte(`{"shop_id":954889,"shop_domain":"test-shop.myshopify.com"}`)
	out, err := svc.Handle(context.Background(), webhook("shop/redact", "", body))
	require.NoError(t, err)

	resp, ok := out.(*models.ShopRedactResponse)
	require.True(t, ok)
	assert.Equal(t, models.ActionDataDeleted, resp.ActionTaken)
	assert.Equal(t, testShop, resp.Details.Shop)
	assert.ElementsMatch(t, []string{
		store.Key(testShop, credentials.FieldAccessToken),
		store.Key(testShop, credentials.FieldScopes),
		store.Key(testShop, credentials.FieldInstalledAt),
	}, resp.Details.DeletedParameters)
	assert.Equal(t, "2025-01-02T03:04:05Z", resp.Details.DeletedAt)

	_, err = store.Get(context.Background(), testShop, credentials.FieldAccessToken)
	assert.True(t, credentials.IsNotFound(err))
	assert.Equal(t, 3, backend.Count())
}

func TestPrivacyService_ShopRedactFallsBackToHeader(t *testing.T) {
	store, backend := newStore()
	seedCredential(t, store, testShop)
	svc := NewPrivacyService(testSecret, store)

	out, err := svc.Handle(context.Background(), webhook("shop/redact", testShop, []byte(`{"shop_id":1}`)))
	require.NoError(t, err)
	assert.Len(t, out.(*models.ShopRedactResponse).Details.DeletedParameters, 3)
	assert.Equal(t, 0, backend.Count())
}

func TestPrivacyService_ShopRedactNothingStored(t *testing.T) {
	store, _ := newStore()
	svc := NewPrivacyService(testSecret, store)

	out, err := svc.Handle(context.Background(), webhook("shop/redact", testShop, []byte(`{}`)))
	require.NoError(t, err)
	resp := out.(*models.ShopRedactResponse)
	assert.NotNil(t, resp.Details.DeletedParameters)
	assert.Empty(t, resp.Details.DeletedParameters)
}

func TestPrivacyService_ShopRedactPartialFailure(t *testing.T) {
	store, backend := newStore()
	seedCredential(t, store, testShop)
	boom := errors.New("throttled")
	backend.FailDelete(store.Key(testShop, credentials.FieldInstalledAt), boom)
	svc := NewPrivacyService(testSecret, store)

	_, err := svc.Handle(context.Background(), webhook("shop/redact", testShop, []byte(`{}`)))
	require.Error(t, err)

	var redactErr *ShopRedactError
	require.True(t, errors.As(err, &redactErr))
	assert.Equal(t, testShop, redactErr.Shop)
	assert.Equal(t, []string{store.Key(testShop, credentials.FieldAccessToken)}, redactErr.Deleted)
	assert.ErrorIs(t, err, boom)
}

func TestPrivacyService_ShopRedactInvalidDomain(t *testing.T) {
	store, _ := newStore()
	svc := NewPrivacyService(testSecret, store)

	_, err := svc.Handle(context.Background(), webhook("shop/redact", "", []byte(`{"shop_domain":"../etc"}`)))
	var redactErr *ShopRedactError
	require.True(t, errors.As(err, &redactErr))
	assert.ErrorIs(t, err, ErrInvalidTenant)
}
