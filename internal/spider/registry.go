package spider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds every defined spider, addressable by type and by name.
// Spiders are only ever added.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]*Spider
	byName map[string]*Spider
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[string]*Spider),
		byName: make(map[string]*Spider),
	}
}

// Register adds sp. It reports false without error when a spider of the
// same type is already registered.
func (r *Registry) Register(sp *Spider) (bool, error) {
	if sp.Abstract() {
		return false, fmt.Errorf("registering %s: %w", sp.Type(), ErrAbstract)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byType[sp.Type()]; exists {
		return false, nil
	}
	if other, exists := r.byName[sp.Name()]; exists {
		return false, fmt.Errorf("registering %s as %q (held by %s): %w", sp.Type(), sp.Name(), other.Type(), ErrNameTaken)
	}

	r.byType[sp.Type()] = sp
	r.byName[sp.Name()] = sp
	return true, nil
}

// Lookup returns the spider registered under a type identifier
func (r *Registry) Lookup(typeName string) (*Spider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.byType[typeName]
	return sp, ok
}

// Get returns the spider with the given name
func (r *Registry) Get(name string) (*Spider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSpider)
	}
	return sp, nil
}

// List returns all spiders sorted by name
func (r *Registry) List() []*Spider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spiders := make([]*Spider, 0, len(r.byName))
	for _, sp := range r.byName {
		spiders = append(spiders, sp)
	}
	sort.Slice(spiders, func(i, j int) bool {
		return spiders[i].Name() < spiders[j].Name()
	})
	return spiders
}

// Len returns the number of registered spiders
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}
