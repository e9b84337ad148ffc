package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-app-api/internal/middleware"
	"shopify-app-api/internal/signature"
)

func newTestRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t, false)

	router := gin.New()
	router.Use(middleware.RequestID())
	SetupRoutes(router, &RouterConfig{
		OAuthService:   env.auth.oauthService,
		PrivacyService: env.webhook.privacyService,
		ProxyService:   env.proxy.proxyService,
		APISecret:      testSecret,
		Stage:          "dev",
	})
	return router, env
}

func TestRoutes_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRoutes_AuthUsesHostAndStage(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/dev/auth?shop="+testShop, nil)
	req.Host = "tunnel.example.com"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "https://tunnel.example.com/dev/callback", loc.Query().Get("redirect_uri"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "shopify_oauth_state=")
}

func TestRoutes_WebhookRawBody(t *testing.T) {
	router, env := newTestRouter(t)
	env.seed(t)

	body := `{"shop_domain": "test-shop.myshopify.com",  "shop_id": 1}`
	req := httptest.NewRequest(http.MethodPost, "/dev/webhooks/gdpr", strings.NewReader(body))
	req.Header.Set("x-shopify-topic", "shop/redact")
	req.Header.Set("x-shopify-hmac-sha256", signature.SignBody([]byte(body), testSecret))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data_deleted")
	assert.Equal(t, 0, env.backend.Count())
}

func TestRoutes_ProxyGet(t *testing.T) {
	router, env := newTestRouter(t)
	env.seed(t)

	params := map[string]string{"shop": testShop, "timestamp": "1"}
	sig := signature.SignQuery(params, testSecret, signature.ProxyScheme)

	q := url.Values{}
	q.Set("shop", testShop)
	q.Set("timestamp", "1")
	q.Set("signature", sig)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dev/proxy?"+q.Encode(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_UnknownStage(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/prod/auth", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
