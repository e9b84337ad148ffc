package config

import (
	"os"
	"sync"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "prod"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// AdaptConfig fills deployment-dependent defaults. An unset store type means
// SSM inside Lambda and the in-memory store everywhere else.
func AdaptConfig(config *Config, serverless bool) *Config {
	if config.Store.Type == "" {
		if serverless {
			config.Store.Type = "ssm"
		} else {
			config.Store.Type = "memory"
		}
	}

	// Lambda log collectors expect one JSON object per line
	if serverless {
		config.Logging.Format = "json"
	}

	return config
}

// GetOptimizedConfig returns validated configuration for the current
// deployment mode with logging already set up.
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	config = AdaptConfig(config, IsServerlessMode())
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := SetupLogging(config.Logging); err != nil {
		return nil, err
	}

	return config, nil
}
