package shopify

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when a call is attempted without an access token.
	ErrMissingToken = errors.New("access token is required")
	// ErrInvalidResponse is returned when the upstream body is not valid JSON.
	ErrInvalidResponse = errors.New("invalid response from Shopify")
)

// HTTPError is returned for any non-2xx response from the Shopify API.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Shopify API error: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// GraphQLError is returned when a GraphQL response carries a top-level
// errors member even though the transport succeeded.
type GraphQLError struct {
	Errors string // raw JSON of the errors member
}

func (e *GraphQLError) Error() string {
	return "GraphQL errors: " + e.Errors
}

// IsUpstreamError reports whether err originated from the Shopify API.
func IsUpstreamError(err error) bool {
	var httpErr *HTTPError
	var gqlErr *GraphQLError
	return errors.As(err, &httpErr) || errors.As(err, &gqlErr) || errors.Is(err, ErrInvalidResponse)
}
