package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"shopify-app-api/internal/models"
	"shopify-app-api/internal/signature"
)

const (
	noCustomerDataMessage = "This app does not store customer-specific data. Only shop-level access tokens are stored for API access."
	noRedactionMessage    = "This app does not store customer-specific data. No deletion required."
	shopDeletedMessage    = "All shop data has been deleted from our systems."
)

// privacyService implements the PrivacyService interface
type privacyService struct {
	secret string
	store  CredentialStore
	now    func() time.Time
}

// NewPrivacyService creates a new privacy webhook service instance
func NewPrivacyService(secret string, store CredentialStore) PrivacyService {
	return &privacyService{
		secret: secret,
		store:  store,
		now:    time.Now,
	}
}

// Handle verifies the raw body signature, then dispatches on the topic.
func (s *privacyService) Handle(ctx context.Context, req *WebhookRequest) (interface{}, error) {
	log := logrus.WithFields(logrus.Fields{
		"topic": req.Topic,
		"shop":  req.ShopDomain,
	})

	if !signature.VerifyBody(req.Body, s.secret, req.Signature) {
		log.Warn("Invalid HMAC signature for webhook")
		return nil, ErrInvalidSignature
	}

	body := req.Body
	if len(body) == 0 {
		body = []byte(`{}`)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: webhook body is not valid JSON", ErrInvalidInput)
	}
	payload := gjson.ParseBytes(body)

	log.Info("Received privacy webhook")

	switch models.ParseTopic(req.Topic) {
	case models.TopicCustomersDataRequest:
		return s.customerDataRequest(payload), nil
	case models.TopicCustomersRedact:
		return s.customerRedact(payload), nil
	case models.TopicShopRedact:
		return s.shopRedact(ctx, payload, req.ShopDomain)
	default:
		log.Warn("Unknown webhook topic")
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, req.Topic)
	}
}

// customerDataRequest answers with an empty data set; only shop-level tokens are kept.
func (s *privacyService) customerDataRequest(payload gjson.Result) *models.CustomerDataResponse {
	logrus.WithFields(logrus.Fields{
		"shop":        payload.Get("shop_domain").String(),
		"customer_id": payload.Get("customer.id").Raw,
	}).Info("Customer data request")

	return &models.CustomerDataResponse{
		ShopID:     rawField(payload, "shop_id"),
		ShopDomain: rawField(payload, "shop_domain"),
		CustomerID: rawField(payload, "customer.id"),
		DataStored: []string{},
		Message:    noCustomerDataMessage,
	}
}

func (s *privacyService) customerRedact(payload gjson.Result) *models.CustomerRedactResponse {
	logrus.WithFields(logrus.Fields{
		"shop":        payload.Get("shop_domain").String(),
		"customer_id": payload.Get("customer.id").Raw,
	}).Info("Customer redact request")

	return &models.CustomerRedactResponse{
		ShopID:      rawField(payload, "shop_id"),
		ShopDomain:  rawField(payload, "shop_domain"),
		CustomerID:  rawField(payload, "customer.id"),
		ActionTaken: models.ActionNoneRequired,
		Message:     noRedactionMessage,
	}
}

// shopRedact deletes every parameter stored for the shop. The payload's
// shop_domain wins over the header.
func (s *privacyService) shopRedact(ctx context.Context, payload gjson.Result, headerShop string) (*models.ShopRedactResponse, error) {
	shop := payload.Get("shop_domain").String()
	if shop == "" {
		shop = headerShop
	}

	log := logrus.WithFields(logrus.Fields{
		"shop":    shop,
		"shop_id": payload.Get("shop_id").Raw,
	})
	log.Info("Shop redact request")

	if !models.IsValidShopDomain(shop) {
		return nil, &ShopRedactError{Shop: shop, Deleted: []string{}, Err: ErrInvalidTenant}
	}

	deleted, err := s.store.DeleteAll(ctx, shop)
	if err != nil {
		log.WithError(err).Error("Error deleting shop data")
		return nil, &ShopRedactError{Shop: shop, Deleted: deleted, Err: err}
	}

	return &models.ShopRedactResponse{
		ShopID:      rawField(payload, "shop_id"),
		ShopDomain:  rawField(payload, "shop_domain"),
		ActionTaken: models.ActionDataDeleted,
		Details: models.DeletionDetails{
			Shop:              shop,
			DeletedParameters: deleted,
			DeletedAt:         s.now().UTC().Format(time.RFC3339Nano),
		},
		Message: shopDeletedMessage,
	}, nil
}

// rawField returns the JSON at path unchanged, or nil (null) when absent.
func rawField(payload gjson.Result, path string) json.RawMessage {
	r := payload.Get(path)
	if !r.Exists() {
		return nil
	}
	return json.RawMessage(r.Raw)
}
