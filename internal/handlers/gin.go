package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopify-app-api/internal/middleware"
	"shopify-app-api/pkg/lambda"
)

// Adapt serves a lambda.HandlerFunc through gin. The request host stands in for
// the gateway domain name so OAuth redirects point back at the dev server.
func Adapt(stage string, h lambda.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := requestFromGin(c, stage)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Message: err.Error()})
			return
		}

		resp, err := h(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			return
		}

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.Status(resp.StatusCode)
		if len(resp.Body) > 0 {
			_, _ = c.Writer.Write(resp.Body)
			return
		}
		c.Writer.WriteHeaderNow()
	}
}

func requestFromGin(c *gin.Context, stage string) (*lambda.Request, error) {
	var body []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	return &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  params,
		DomainName:  c.Request.Host,
		Stage:       stage,
		RequestID:   c.GetString(middleware.RequestIDKey),
	}, nil
}
