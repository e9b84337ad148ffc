package handlers

import (
	"context"
	"errors"
	"net/http"

	"shopify-app-api/internal/services"
	"shopify-app-api/pkg/lambda"
)

// AuthHandler handles the OAuth installation endpoints
type AuthHandler struct {
	oauthService services.OAuthService
	apiSecret    string
}

// NewAuthHandler creates a new OAuth handler
func NewAuthHandler(oauthService services.OAuthService, apiSecret string) *AuthHandler {
	return &AuthHandler{
		oauthService: oauthService,
		apiSecret:    apiSecret,
	}
}

// HandleInitiate redirects the merchant to the shop's consent screen
func (h *AuthHandler) HandleInitiate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	shop := req.Query("shop")
	if shop == "" {
		return errorResponse(http.StatusBadRequest, "Missing shop parameter", ""), nil
	}

	redirect, err := h.oauthService.Initiate(ctx, &services.InitiateRequest{
		Shop:       shop,
		DomainName: req.DomainName,
		Stage:      req.Stage,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidTenant) {
			return errorResponse(http.StatusBadRequest, "Invalid shop domain", ""), nil
		}
		requestLogger(req, "auth").WithError(err).Error("Auth error")
		return errorResponse(http.StatusInternalServerError, "Internal server error", ""), nil
	}

	return redirectResponse(redirect.Location, redirect.Cookies), nil
}

// HandleCallback completes the installation and redirects to the frontend
func (h *AuthHandler) HandleCallback(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	callback := &services.CallbackRequest{
		Shop:        req.Query("shop"),
		Code:        req.Query("code"),
		HMAC:        req.Query("hmac"),
		State:       req.Query("state"),
		StateCookie: req.Cookie(services.StateCookieName),
		Params:      req.QueryParams,
	}

	redirect, err := h.oauthService.Complete(ctx, callback)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingParameter):
			return errorResponse(http.StatusBadRequest, "Missing required parameters", ""), nil
		case errors.Is(err, services.ErrInvalidTenant):
			return errorResponse(http.StatusBadRequest, "Invalid shop domain", ""), nil
		case errors.Is(err, services.ErrInvalidState):
			return errorResponse(http.StatusForbidden, "Invalid OAuth state", ""), nil
		case errors.Is(err, services.ErrInvalidSignature):
			return errorResponse(http.StatusForbidden, "Invalid HMAC signature", ""), nil
		}

		requestLogger(req, "callback").WithError(err).WithField("shop", callback.Shop).Error("Callback error")
		return errorResponse(http.StatusInternalServerError, "Failed to complete installation",
			redact(err.Error(), h.apiSecret)), nil
	}

	return redirectResponse(redirect.Location, redirect.Cookies), nil
}
