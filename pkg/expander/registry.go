package expander

import (
	"reflect"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Registry selects an expander per declared root type, falling back to a
// default strategy. It implements Expander itself.
type Registry struct {
	mu         sync.RWMutex
	fallback   Expander
	strategies map[reflect.Type]Expander
}

// NewRegistry creates a registry that routes unknown types to fallback.
func NewRegistry(fallback Expander) *Registry {
	return &Registry{
		fallback:   fallback,
		strategies: make(map[reflect.Type]Expander),
	}
}

// Register binds an expander to a root type.
// If one is already bound, it is overwritten.
func (r *Registry) Register(t reflect.Type, e Expander) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[t] = e
}

// Lookup returns the expander bound to the descriptor's root type, or the fallback.
func (r *Registry) Lookup(t domain.TypeDescriptor) Expander {
	r.mu.RLock()
	e, ok := r.strategies[t.Root]
	r.mu.RUnlock()

	if !ok {
		return r.fallback
	}
	return e
}

// Expand routes node to its strategy.
func (r *Registry) Expand(node *domain.Node) ([]*domain.Node, error) {
	return r.Lookup(node.Type).Expand(node)
}
