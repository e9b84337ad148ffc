package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"shopify-app-api/internal/services"
	"shopify-app-api/pkg/lambda"
)

// Webhook headers, matched case-insensitively
const (
	HeaderTopic      = "X-Shopify-Topic"
	HeaderHMAC       = "X-Shopify-Hmac-Sha256"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
)

// WebhookHandler handles the mandatory privacy webhooks
type WebhookHandler struct {
	privacyService services.PrivacyService
	apiSecret      string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(privacyService services.PrivacyService, apiSecret string) *WebhookHandler {
	return &WebhookHandler{
		privacyService: privacyService,
		apiSecret:      apiSecret,
	}
}

// HandleWebhook verifies and dispatches one webhook delivery
func (h *WebhookHandler) HandleWebhook(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	webhook := &services.WebhookRequest{
		Topic:      req.Header(HeaderTopic),
		Signature:  req.Header(HeaderHMAC),
		ShopDomain: req.Header(HeaderShopDomain),
		Body:       req.Body,
	}

	result, err := h.privacyService.Handle(ctx, webhook)
	if err == nil {
		return jsonResponse(http.StatusOK, result, nil), nil
	}

	var redactErr *services.ShopRedactError
	switch {
	case errors.Is(err, services.ErrInvalidSignature):
		return errorResponse(http.StatusUnauthorized, "Invalid signature", ""), nil
	case errors.Is(err, services.ErrUnknownTopic):
		return errorResponse(http.StatusBadRequest, "Unknown topic: "+webhook.Topic, ""), nil
	case errors.Is(err, services.ErrInvalidTenant):
		return errorResponse(http.StatusBadRequest, "Invalid shop domain", ""), nil
	case errors.Is(err, services.ErrInvalidInput):
		return errorResponse(http.StatusBadRequest, "Invalid JSON payload", ""), nil
	case errors.As(err, &redactErr):
		requestLogger(req, "webhooks").WithError(err).WithFields(logrus.Fields{
			"shop":    redactErr.Shop,
			"deleted": redactErr.Deleted,
		}).Error("Error processing shop redact")
		return errorResponse(http.StatusInternalServerError, "Failed to delete shop data",
			redact(redactErr.Err.Error(), h.apiSecret)), nil
	}

	requestLogger(req, "webhooks").WithError(err).WithField("topic", webhook.Topic).Error("Webhook error")
	return errorResponse(http.StatusInternalServerError, "Internal server error", ""), nil
}
