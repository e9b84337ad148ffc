package credentials

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of ParameterStore used by tests
// and the local development server.
type MemoryStore struct {
	mu         sync.RWMutex
	params     map[string]*memoryParam
	deleteErrs map[string]error
	listErr    error
	calls      map[string]int
}

type memoryParam struct {
	value        string
	secure       bool
	description  string
	tags         map[string]string
	lastModified time.Time
}

// NewMemoryStore creates a new MemoryStore instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		params:     make(map[string]*memoryParam),
		deleteErrs: make(map[string]error),
		calls:      make(map[string]int),
	}
}

// Put implements ParameterStore.Put
func (m *MemoryStore) Put(ctx context.Context, p *Parameter) error {
	if p == nil || p.Name == "" {
		return NewStoreError("Put", "", ErrInvalidKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Put"]++

	var tags map[string]string
	if p.Tags != nil {
		tags = make(map[string]string, len(p.Tags))
		for k, v := range p.Tags {
			tags[k] = v
		}
	}

	m.params[p.Name] = &memoryParam{
		value:        p.Value,
		secure:       p.Secure,
		description:  p.Description,
		tags:         tags,
		lastModified: time.Now(),
	}
	return nil
}

// Get implements ParameterStore.Get
func (m *MemoryStore) Get(ctx context.Context, name string, decrypt bool) (string, error) {
	if name == "" {
		return "", NewStoreError("Get", name, ErrInvalidKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Get"]++

	p, ok := m.params[name]
	if !ok {
		return "", NewStoreError("Get", name, ErrNotFound)
	}
	if p.secure && !decrypt {
		return "", NewStoreError("Get", name, ErrInvalidKey)
	}
	return p.value, nil
}

// Delete implements ParameterStore.Delete
func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	if name == "" {
		return NewStoreError("Delete", name, ErrInvalidKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Delete"]++

	if err, ok := m.deleteErrs[name]; ok {
		return NewStoreError("Delete", name, err)
	}
	if _, ok := m.params[name]; !ok {
		return NewStoreError("Delete", name, ErrNotFound)
	}
	delete(m.params, name)
	return nil
}

// ListByPrefix implements ParameterStore.ListByPrefix. Names are returned sorted.
func (m *MemoryStore) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ListByPrefix"]++

	if m.listErr != nil {
		return nil, NewStoreError("ListByPrefix", prefix, m.listErr)
	}

	names := []string{}
	for name := range m.params {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Additional methods for testing

// FailDelete makes every Delete of name return err.
func (m *MemoryStore) FailDelete(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErrs[name] = err
}

// FailList makes ListByPrefix return err. A nil err clears the failure.
func (m *MemoryStore) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// Calls returns how many times op was invoked.
func (m *MemoryStore) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// IsSecure reports whether name was stored as a secure value.
func (m *MemoryStore) IsSecure(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.params[name]
	return ok && p.secure
}

// Tags returns the tags recorded for name.
func (m *MemoryStore) Tags(name string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.params[name]; ok {
		return p.tags
	}
	return nil
}

// Count returns the number of stored parameters
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.params)
}

// Reset clears all stored parameters and injected failures
func (m *MemoryStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = make(map[string]*memoryParam)
	m.deleteErrs = make(map[string]error)
	m.listErr = nil
	m.calls = make(map[string]int)
}
