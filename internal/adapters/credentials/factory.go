package credentials

import (
	"context"
	"fmt"
	"strings"
)

// BackendType represents the type of parameter store implementation
type BackendType string

const (
	BackendSSM    BackendType = "ssm"
	BackendMemory BackendType = "memory"
)

// NewBackend creates a ParameterStore based on the provided configuration
func NewBackend(ctx context.Context, config *StoreConfig) (ParameterStore, error) {
	if config == nil {
		return nil, fmt.Errorf("store config is required")
	}

	switch BackendType(strings.ToLower(config.Type)) {
	case BackendSSM, "":
		backend, err := NewSSMStoreForRegion(ctx, config.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create ssm store: %w", err)
		}
		return backend, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, config.Type)
	}
}

// NewFromConfig is a convenience function returning a Store over the configured backend
func NewFromConfig(ctx context.Context, config *StoreConfig) (*Store, error) {
	backend, err := NewBackend(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewStore(backend, config.Prefix), nil
}
