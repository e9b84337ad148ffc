package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// StateCookieName is the cookie carrying the OAuth state between initiate and callback
const StateCookieName = "shopify_oauth_state"

const stateBytes = 16

// GenerateState returns a random hex-encoded OAuth state value
func GenerateState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// StateVerifier checks the state echoed back on the OAuth callback.
type StateVerifier interface {
	VerifyState(ctx context.Context, req *CallbackRequest) error
}

// NoopStateVerifier accepts every callback. The state cookie's SameSite and
// HttpOnly attributes are the only protection in this mode.
type NoopStateVerifier struct{}

// VerifyState implements StateVerifier
func (NoopStateVerifier) VerifyState(ctx context.Context, req *CallbackRequest) error {
	return nil
}

// CookieStateVerifier requires the state query parameter to match the state cookie.
type CookieStateVerifier struct{}

// VerifyState implements StateVerifier
func (CookieStateVerifier) VerifyState(ctx context.Context, req *CallbackRequest) error {
	if req.State == "" || req.StateCookie == "" {
		return ErrInvalidState
	}
	if !hmac.Equal([]byte(req.State), []byte(req.StateCookie)) {
		return ErrInvalidState
	}
	return nil
}
