// Package registry keeps named schemas so tools can look them up by name.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/reoring/zschema"
)

var (
	ErrDuplicate = errors.New("registry: schema already registered")
	ErrNotFound  = errors.New("registry: schema not found")
)

// Registry maps names to records. The zero value is ready to use and safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*zschema.Record
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

// Register adds a record under name. Names are never overwritten.
func (r *Registry) Register(name string, rec *zschema.Record) error {
	if name == "" {
		return fmt.Errorf("registry: empty name")
	}
	if rec == nil {
		return fmt.Errorf("registry: nil record for %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	if r.schemas == nil {
		r.schemas = make(map[string]*zschema.Record)
	}
	r.schemas[name] = rec
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, rec *zschema.Record) *zschema.Record {
	if err := r.Register(name, rec); err != nil {
		panic(err)
	}
	return rec
}

// Get returns the record registered under name.
func (r *Registry) Get(name string) (*zschema.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return rec, nil
}

// Names lists registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.schemas))
}

// All returns a copy of the name to record mapping.
func (r *Registry) All() map[string]*zschema.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.schemas)
}

// Len reports the number of registered schemas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}
