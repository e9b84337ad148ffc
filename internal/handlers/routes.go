package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopify-app-api/internal/middleware"
	"shopify-app-api/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	OAuthService   services.OAuthService
	PrivacyService services.PrivacyService
	ProxyService   services.ProxyService
	APISecret      string

	// Stage is the path prefix mirroring the API Gateway stage
	Stage string

	// RequestsPerSecond and Burst configure the rate limiter; zero disables it
	RequestsPerSecond float64
	Burst             int
}

// SetupRoutes mounts the four function endpoints under /<stage>
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	authHandler := NewAuthHandler(config.OAuthService, config.APISecret)
	webhookHandler := NewWebhookHandler(config.PrivacyService, config.APISecret)
	proxyHandler := NewProxyHandler(config.ProxyService, config.APISecret)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "shopify-app-api",
			"timestamp": time.Now().UTC(),
		})
	})

	stage := router.Group("/" + config.Stage)
	if config.RequestsPerSecond > 0 {
		stage.Use(middleware.RateLimiter(config.RequestsPerSecond, config.Burst))
	}
	{
		stage.GET("/auth", Adapt(config.Stage, authHandler.HandleInitiate))
		stage.GET("/callback", Adapt(config.Stage, authHandler.HandleCallback))
		stage.POST("/webhooks/gdpr", Adapt(config.Stage, webhookHandler.HandleWebhook))
		stage.GET("/proxy", Adapt(config.Stage, proxyHandler.HandleProxy))
		stage.POST("/proxy", Adapt(config.Stage, proxyHandler.HandleProxy))
	}
}
