package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"shopify-app-api/internal/adapters/credentials"
	"shopify-app-api/internal/signature"
)

// DefaultScopes is the scope list requested at installation
const DefaultScopes = "read_products,write_products,read_orders"

// OAuthConfig holds the app settings used by the installation flow
type OAuthConfig struct {
	APIKey       string
	APISecret    string
	Scopes       string
	FrontendURL  string
	DefaultStage string
}

// oauthService implements the OAuthService interface
type oauthService struct {
	config    *OAuthConfig
	store     CredentialStore
	shopify   ShopifyAPI
	state     StateVerifier
	validator *validator.Validate
	now       func() time.Time
}

// NewOAuthService creates a new OAuth service instance. A nil state verifier
// accepts every callback.
func NewOAuthService(config *OAuthConfig, store CredentialStore, api ShopifyAPI, state StateVerifier) OAuthService {
	if config.Scopes == "" {
		config.Scopes = DefaultScopes
	}
	if config.DefaultStage == "" {
		config.DefaultStage = "prod"
	}
	if state == nil {
		state = NoopStateVerifier{}
	}

	return &oauthService{
		config:    config,
		store:     store,
		shopify:   api,
		state:     state,
		validator: newValidator(),
		now:       time.Now,
	}
}

// Initiate builds the authorization redirect and the state cookie. The
// callback URL is derived from the invoking gateway so no separate setting
// has to point back at this deployment.
func (s *oauthService) Initiate(ctx context.Context, req *InitiateRequest) (*Redirect, error) {
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}
	if req.DomainName == "" {
		return nil, errors.New("request context has no domain name")
	}

	stage := req.Stage
	if stage == "" {
		stage = s.config.DefaultStage
	}
	appURL := fmt.Sprintf("https://%s/%s", req.DomainName, stage)

	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	authConfig := &oauth2.Config{
		ClientID:    s.config.APIKey,
		RedirectURL: appURL + "/callback",
		Scopes:      []string{s.config.Scopes},
		Endpoint: oauth2.Endpoint{
			AuthURL: "https://" + req.Shop + "/admin/oauth/authorize",
		},
	}

	logrus.WithFields(logrus.Fields{
		"shop":         req.Shop,
		"redirect_uri": authConfig.RedirectURL,
	}).Info("Starting OAuth installation")

	return &Redirect{
		Location: authConfig.AuthCodeURL(state),
		Cookies: []*http.Cookie{{
			Name:     StateCookieName,
			Value:    state,
			Path:     "/",
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}},
	}, nil
}

// Complete verifies the callback signature, exchanges the code and stores the
// resulting credential before redirecting to the frontend.
func (s *oauthService) Complete(ctx context.Context, req *CallbackRequest) (*Redirect, error) {
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	if !signature.VerifyQuery(req.Params, s.config.APISecret, req.HMAC, signature.CallbackScheme) {
		logrus.WithField("shop", req.Shop).Warn("Invalid HMAC on OAuth callback")
		return nil, ErrInvalidSignature
	}

	if err := s.state.VerifyState(ctx, req); err != nil {
		logrus.WithField("shop", req.Shop).Warn("OAuth state check failed")
		return nil, err
	}

	token, err := s.shopify.ExchangeCode(ctx, req.Shop, req.Code)
	if err != nil {
		return nil, err
	}

	cred := &credentials.Credential{
		AccessToken: token.AccessToken,
		Scopes:      token.Scope,
		InstalledAt: s.now().UTC(),
	}
	if err := s.store.SaveCredential(ctx, req.Shop, cred); err != nil {
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"shop":   req.Shop,
		"scopes": token.Scope,
	}).Info("Successfully stored credentials")

	return &Redirect{
		Location: fmt.Sprintf("%s?shop=%s&installed=true", s.config.FrontendURL, url.QueryEscape(req.Shop)),
	}, nil
}
