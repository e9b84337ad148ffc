package lambda

import (
	"context"
	"sync"
	"time"

	"shopify-app-api/internal/config"
	"shopify-app-api/pkg/server"
)

// ConnectionManager lazily builds the service container once per Lambda
// execution environment and reuses it across warm invocations.
type ConnectionManager struct {
	container   *server.Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	config      *config.Config

	// loadConfig and newContainer are replaced in tests
	loadConfig   func() (*config.Config, error)
	newContainer func(ctx context.Context, cfg *config.Config) (*server.Container, error)
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager()
	})
	return globalConnectionManager
}

// NewConnectionManager returns an uninitialized connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		loadConfig:   config.GetOptimizedConfig,
		newContainer: server.NewContainer,
	}
}

// Initialize builds the container from cfg. Failures are not cached so a
// later invocation can retry after a transient SSM or config error.
func (cm *ConnectionManager) Initialize(ctx context.Context, cfg *config.Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.initialized {
		return nil
	}

	container, err := cm.newContainer(ctx, cfg)
	if err != nil {
		return err
	}

	cm.config = cfg
	cm.container = container
	cm.lastUsed = time.Now()
	cm.initialized = true
	return nil
}

// GetContainer returns the service container, initializing if necessary
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.RLock()
	if cm.initialized && cm.container != nil {
		container := cm.container
		cm.mu.RUnlock()
		cm.UpdateLastUsed()
		return container, nil
	}
	cm.mu.RUnlock()

	cfg, err := cm.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cm.Initialize(ctx, cfg); err != nil {
		return nil, err
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.container, nil
}

// IsHealthy checks if the connection manager holds a recently used container
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}

	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Reset drops the container so the next invocation rebuilds it
func (cm *ConnectionManager) Reset() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.container = nil
	cm.initialized = false
}

// UpdateLastUsed updates the last used timestamp
func (cm *ConnectionManager) UpdateLastUsed() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
}
