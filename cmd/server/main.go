package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shopify-app-api/internal/config"
	"shopify-app-api/internal/handlers"
	"shopify-app-api/internal/middleware"
	"shopify-app-api/pkg/server"
)

// Local development server mounting the four Lambda functions under /<STAGE>.
// Expose it through an HTTPS tunnel so the OAuth redirect_uri is reachable.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg = config.AdaptConfig(cfg, false)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	if err := config.SetupLogging(cfg.Logging); err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	// Initialize dependencies
	container, err := server.NewContainer(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize container: %v", err)
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestSizeLimit(1 << 20))

	stage := config.GetServerlessConfig().Stage
	handlers.SetupRoutes(router, &handlers.RouterConfig{
		OAuthService:      container.OAuthService,
		PrivacyService:    container.PrivacyService,
		ProxyService:      container.ProxyService,
		APISecret:         cfg.Shopify.APISecret,
		Stage:             stage,
		RequestsPerSecond: 20,
		Burst:             40,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	logrus.WithFields(logrus.Fields{
		"port":  cfg.Port,
		"stage": stage,
		"store": cfg.Store.Type,
	}).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
