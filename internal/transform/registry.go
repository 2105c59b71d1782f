// Package transform derives output artifacts from loaded module exports.
package transform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

const (
	// NameCSSVars renders rule modules as CSS custom properties.
	NameCSSVars = "cssvars"
	// NameJSON renders the exports as indented JSON.
	NameJSON = "json"
)

// Registry holds the transforms a playground can be configured with.
type Registry struct {
	mu           sync.RWMutex
	transformers map[string]ports.Transformer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{transformers: make(map[string]ports.Transformer)}
}

// Default returns a registry with the built-in transforms.
func Default() *Registry {
	r := NewRegistry()
	_ = r.Register(CSSVars{})
	_ = r.Register(JSON{})
	return r
}

// Register adds t under its name. Names must be unique.
func (r *Registry) Register(t ports.Transformer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if name == "" {
		return fmt.Errorf("transform has no name")
	}
	if _, exists := r.transformers[name]; exists {
		return fmt.Errorf("transform already registered: %s", name)
	}
	r.transformers[name] = t
	return nil
}

// Get retrieves a transform by name.
func (r *Registry) Get(name string) (ports.Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transformers[name]
	if !ok {
		return nil, fmt.Errorf("transform not found: %s", name)
	}
	return t, nil
}

// Names lists registered transform names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.transformers))
	for name := range r.transformers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
