package credentials

import (
	"context"
	"time"
)

// Credential record fields. Each is stored as its own parameter beneath
// <prefix>/<tenant>/.
const (
	FieldAccessToken = "access-token"
	FieldScopes      = "scopes"
	FieldInstalledAt = "installed-at"
)

// DefaultPrefix is the namespace used when no prefix is configured.
const DefaultPrefix = "/shopify/clients"

// Parameter is a single entry written to the backend.
type Parameter struct {
	Name        string            `json:"name"`
	Value       string            `json:"value"`
	Secure      bool              `json:"secure"`
	Description string            `json:"description,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// ParameterStore is the key/value backend the credential store writes to.
// Implementations must provide per-key atomicity; nothing more is assumed.
type ParameterStore interface {
	// Put upserts a parameter, overwriting any previous value
	Put(ctx context.Context, p *Parameter) error

	// Get returns the value of a parameter, decrypting secure values when
	// decrypt is set. Missing parameters yield ErrNotFound.
	Get(ctx context.Context, name string, decrypt bool) (string, error)

	// Delete removes a parameter
	Delete(ctx context.Context, name string) error

	// ListByPrefix returns the names of all parameters beginning with prefix
	ListByPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Credential is the per-tenant record written after a completed OAuth exchange.
type Credential struct {
	AccessToken string    `json:"-"`
	Scopes      string    `json:"scopes"`
	InstalledAt time.Time `json:"installed_at"`
}

// StoreConfig represents configuration for parameter store backends
type StoreConfig struct {
	Type   string `json:"type" yaml:"type"`     // "ssm" or "memory"
	Prefix string `json:"prefix" yaml:"prefix"` // Key namespace
	Region string `json:"region" yaml:"region"` // For SSM
}
