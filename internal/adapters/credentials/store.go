package credentials

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Store scopes parameter operations beneath <prefix>/<tenant>/<field>.
type Store struct {
	backend ParameterStore
	prefix  string
	now     func() time.Time
}

// NewStore creates a credential store over backend. An empty prefix selects DefaultPrefix.
func NewStore(backend ParameterStore, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		backend: backend,
		prefix:  strings.TrimSuffix(prefix, "/"),
		now:     time.Now,
	}
}

// Prefix returns the configured namespace.
func (s *Store) Prefix() string {
	return s.prefix
}

// Key returns the full parameter name for a tenant field.
func (s *Store) Key(tenant, field string) string {
	return s.namespace(tenant) + field
}

func (s *Store) namespace(tenant string) string {
	return s.prefix + "/" + tenant + "/"
}

func validateTenant(tenant string) error {
	if tenant == "" || strings.ContainsAny(tenant, "/ ") {
		return fmt.Errorf("%w: %q", ErrInvalidTenant, tenant)
	}
	return nil
}

// Put upserts a single field. secure fields are encrypted at rest.
func (s *Store) Put(ctx context.Context, tenant, field, value string, secure bool) error {
	if err := validateTenant(tenant); err != nil {
		return err
	}
	if field == "" {
		return NewStoreError("Put", s.namespace(tenant), ErrInvalidKey)
	}

	return s.backend.Put(ctx, &Parameter{
		Name:        s.Key(tenant, field),
		Value:       value,
		Secure:      secure,
		Description: describe(field, tenant),
		Tags: map[string]string{
			"App":  "Shopify",
			"Shop": tenant,
		},
	})
}

func describe(field, tenant string) string {
	switch field {
	case FieldAccessToken:
		return "Shopify access token for " + tenant
	case FieldScopes:
		return "Shopify scopes for " + tenant
	case FieldInstalledAt:
		return "Installation timestamp for " + tenant
	default:
		return field + " for " + tenant
	}
}

// Get reads a field, decrypting secure values. Missing fields yield ErrNotFound.
func (s *Store) Get(ctx context.Context, tenant, field string) (string, error) {
	if err := validateTenant(tenant); err != nil {
		return "", err
	}
	return s.backend.Get(ctx, s.Key(tenant, field), true)
}

// List returns every parameter name stored for tenant.
func (s *Store) List(ctx context.Context, tenant string) ([]string, error) {
	if err := validateTenant(tenant); err != nil {
		return nil, err
	}
	return s.backend.ListByPrefix(ctx, s.namespace(tenant))
}

// DeleteAll removes every parameter stored for tenant and returns the removed
// names. The operation is best-effort: it stops at the first failure and
// returns a *DeleteError listing what was already removed.
func (s *Store) DeleteAll(ctx context.Context, tenant string) ([]string, error) {
	if err := validateTenant(tenant); err != nil {
		return nil, err
	}

	names, err := s.backend.ListByPrefix(ctx, s.namespace(tenant))
	if err != nil {
		return nil, &DeleteError{Tenant: tenant, Deleted: []string{}, Err: err}
	}

	deleted := make([]string, 0, len(names))
	for _, name := range names {
		if err := s.backend.Delete(ctx, name); err != nil {
			logrus.WithFields(logrus.Fields{
				"shop":      tenant,
				"parameter": name,
				"deleted":   len(deleted),
				"error":     err.Error(),
			}).Error("Failed to delete parameter")
			return deleted, &DeleteError{Tenant: tenant, Deleted: deleted, Err: err}
		}
		deleted = append(deleted, name)
		logrus.WithFields(logrus.Fields{
			"shop":      tenant,
			"parameter": name,
		}).Info("Deleted parameter")
	}

	return deleted, nil
}

// SaveCredential writes the three fields of a credential record.
func (s *Store) SaveCredential(ctx context.Context, tenant string, cred *Credential) error {
	installedAt := cred.InstalledAt
	if installedAt.IsZero() {
		installedAt = s.now()
	}

	if err := s.Put(ctx, tenant, FieldAccessToken, cred.AccessToken, true); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := s.Put(ctx, tenant, FieldScopes, cred.Scopes, false); err != nil {
		return fmt.Errorf("failed to store scopes: %w", err)
	}
	if err := s.Put(ctx, tenant, FieldInstalledAt, installedAt.UTC().Format(time.RFC3339Nano), false); err != nil {
		return fmt.Errorf("failed to store installation timestamp: %w", err)
	}
	return nil
}

// LoadCredential reads a full credential record. Only the access token is
// required; missing metadata fields are left empty.
func (s *Store) LoadCredential(ctx context.Context, tenant string) (*Credential, error) {
	token, err := s.Get(ctx, tenant, FieldAccessToken)
	if err != nil {
		return nil, err
	}

	cred := &Credential{AccessToken: token}

	scopes, err := s.Get(ctx, tenant, FieldScopes)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	cred.Scopes = scopes

	installedAt, err := s.Get(ctx, tenant, FieldInstalledAt)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	if installedAt != "" {
		if t, perr := time.Parse(time.RFC3339Nano, installedAt); perr == nil {
			cred.InstalledAt = t
		}
	}

	return cred, nil
}
