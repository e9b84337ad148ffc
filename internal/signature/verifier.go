// Package signature verifies the keyed HMAC-SHA256 signatures Shopify attaches
// to OAuth callbacks, app proxy requests and webhooks.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"sort"
	"strings"
)

// QueryScheme describes how a signed query string is canonicalized.
// Shopify signs install callbacks and app proxy requests differently, so each
// call site picks its own scheme.
type QueryScheme struct {
	// Carriers are the parameters that carry the signature and are excluded
	// from the signed material.
	Carriers []string
	// Separator joins the sorted key=value pairs.
	Separator string
}

var (
	// CallbackScheme is used for OAuth install callbacks (hmac query parameter).
	CallbackScheme = QueryScheme{Carriers: []string{"hmac", "signature"}, Separator: "&"}

	// ProxyScheme is used for storefront app proxy requests (signature query parameter).
	ProxyScheme = QueryScheme{Carriers: []string{"signature"}, Separator: ""}
)

// Canonicalize builds the string the upstream platform signed for params.
func (s QueryScheme) Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if s.isCarrier(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, s.Separator)
}

func (s QueryScheme) isCarrier(key string) bool {
	for _, c := range s.Carriers {
		if c == key {
			return true
		}
	}
	return false
}

// SignQuery returns the hex-encoded HMAC-SHA256 of the canonical query string.
func SignQuery(params map[string]string, secret string, scheme QueryScheme) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(scheme.Canonicalize(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyQuery reports whether signature matches params under scheme.
func VerifyQuery(params map[string]string, secret, signature string, scheme QueryScheme) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := SignQuery(params, secret, scheme)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignBody returns the base64-encoded HMAC-SHA256 of the raw body bytes.
func SignBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyBody reports whether signature matches the raw webhook body.
// The body must be the bytes exactly as received.
func VerifyBody(body []byte, secret, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := SignBody(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
