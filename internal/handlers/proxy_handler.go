package handlers

import (
	"context"
	"errors"
	"net/http"

	"shopify-app-api/internal/services"
	"shopify-app-api/internal/shopify"
	"shopify-app-api/pkg/lambda"
)

// ProxyHandler handles storefront app proxy requests
type ProxyHandler struct {
	proxyService services.ProxyService
	apiSecret    string
}

// NewProxyHandler creates a new app proxy handler
func NewProxyHandler(proxyService services.ProxyService, apiSecret string) *ProxyHandler {
	return &ProxyHandler{
		proxyService: proxyService,
		apiSecret:    apiSecret,
	}
}

// HandleProxy verifies the proxy signature and relays the call upstream
func (h *ProxyHandler) HandleProxy(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	proxy := &services.ProxyRequest{
		Shop:      req.Query("shop"),
		Signature: req.Query("signature"),
		Params:    req.QueryParams,
		Body:      req.Body,
	}

	data, err := h.proxyService.Relay(ctx, proxy)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingParameter):
			return errorResponse(http.StatusBadRequest, "Missing required parameters", ""), nil
		case errors.Is(err, services.ErrInvalidTenant):
			return errorResponse(http.StatusBadRequest, "Invalid shop domain", ""), nil
		case errors.Is(err, services.ErrInvalidInput):
			return errorResponse(http.StatusBadRequest, "Invalid request body", ""), nil
		case errors.Is(err, services.ErrInvalidSignature):
			return errorResponse(http.StatusForbidden, "Invalid signature", ""), nil
		}

		requestLogger(req, "proxy").WithError(err).WithField("shop", proxy.Shop).Error("Proxy error")
		return errorResponse(http.StatusInternalServerError, "Internal server error",
			redact(err.Error(), h.apiSecret, req.Header(shopify.AccessTokenHeader))), nil
	}

	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: data,
	}, nil
}
