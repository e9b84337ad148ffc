package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"shopify-app-api/pkg/lambda"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

const redactedPlaceholder = "[REDACTED]"

// redact removes every non-empty secret from msg
func redact(msg string, secrets ...string) string {
	for _, s := range secrets {
		if s != "" {
			msg = strings.ReplaceAll(msg, s, redactedPlaceholder)
		}
	}
	return msg
}

// jsonResponse encodes v as the response body
func jsonResponse(status int, v interface{}, headers map[string]string) *lambda.Response {
	body, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode response")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}

	h := map[string]string{"Content-Type": "application/json"}
	for k, val := range headers {
		h[k] = val
	}

	return &lambda.Response{StatusCode: status, Headers: h, Body: body}
}

func errorResponse(status int, errText, message string) *lambda.Response {
	return jsonResponse(status, ErrorResponse{Error: errText, Message: message}, nil)
}

func redirectResponse(location string, cookies []*http.Cookie) *lambda.Response {
	headers := map[string]string{"Location": location}
	// The envelope carries one value per header; the OAuth flow only ever sets one cookie.
	if len(cookies) > 0 {
		headers["Set-Cookie"] = cookies[0].String()
	}
	return &lambda.Response{StatusCode: http.StatusFound, Headers: headers, Body: []byte{}}
}

// requestLogger returns a logrus entry carrying the request id
func requestLogger(req *lambda.Request, function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function":   function,
		"request_id": req.RequestID,
	})
}
