package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	FrontendURL string
	Shopify     ShopifyConfig
	Store       StoreConfig
	Logging     LoggingConfig

	// OAuthStateCheck enables the state cookie comparison on OAuth callbacks
	OAuthStateCheck bool
}

// ShopifyConfig holds the app credentials and Admin API settings
type ShopifyConfig struct {
	APIKey      string
	APISecret   string
	Scopes      string
	APIVersion  string
	HTTPTimeout time.Duration
}

// StoreConfig holds credential store configuration
type StoreConfig struct {
	Type   string // "ssm" or "memory"
	Prefix string
	Region string
}

// LoggingConfig holds logrus configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SHOPIFY_SCOPES", "read_products,write_products,read_orders")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-01")
	viper.SetDefault("SHOPIFY_HTTP_TIMEOUT", "30s")
	viper.SetDefault("PARAMETER_STORE_PREFIX", "/shopify/clients")
	viper.SetDefault("AWS_REGION", "eu-central-1")
	viper.SetDefault("OAUTH_STATE_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		FrontendURL: viper.GetString("FRONTEND_URL"),
		Shopify: ShopifyConfig{
			APIKey:      viper.GetString("SHOPIFY_API_KEY"),
			APISecret:   viper.GetString("SHOPIFY_API_SECRET"),
			Scopes:      viper.GetString("SHOPIFY_SCOPES"),
			APIVersion:  viper.GetString("SHOPIFY_API_VERSION"),
			HTTPTimeout: viper.GetDuration("SHOPIFY_HTTP_TIMEOUT"),
		},
		Store: StoreConfig{
			Type:   strings.ToLower(viper.GetString("STORE_TYPE")),
			Prefix: viper.GetString("PARAMETER_STORE_PREFIX"),
			Region: viper.GetString("AWS_REGION"),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		OAuthStateCheck: viper.GetBool("OAUTH_STATE_CHECK"),
	}

	return config, nil
}

// Validate reports missing required settings
func (c *Config) Validate() error {
	var errs []error
	if c.Shopify.APIKey == "" {
		errs = append(errs, errors.New("SHOPIFY_API_KEY is required"))
	}
	if c.Shopify.APISecret == "" {
		errs = append(errs, errors.New("SHOPIFY_API_SECRET is required"))
	}
	switch c.Store.Type {
	case "", "ssm", "memory":
	default:
		errs = append(errs, errors.New("STORE_TYPE must be ssm or memory"))
	}
	if c.Shopify.HTTPTimeout < 0 {
		errs = append(errs, errors.New("SHOPIFY_HTTP_TIMEOUT must not be negative"))
	}
	return errors.Join(errs...)
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
