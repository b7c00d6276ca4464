package chat

import (
	"fmt"
	"sync"
)

// Registry is the single source of truth for which connections are live and
// what display name each one carries. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	names map[ConnID]string
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[ConnID]string)}
}

// Register records the display name for a new connection. It rejects a
// second registration of the same identifier with ErrAlreadyRegistered
// rather than silently overwriting the existing name.
func (r *Registry) Register(id ConnID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.names[id]; ok {
		return fmt.Errorf("register %q as %q: %w (current name %q)", id, name, ErrAlreadyRegistered, existing)
	}
	r.names[id] = name
	return nil
}

// Lookup returns the display name for a connection, or ErrNotRegistered.
func (r *Registry) Lookup(id ConnID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.names[id]
	if !ok {
		return "", fmt.Errorf("lookup %q: %w", id, ErrNotRegistered)
	}
	return name, nil
}

// Remove forgets a connection. Removing an unknown identifier is a no-op,
// which keeps duplicate disconnect cleanup harmless.
func (r *Registry) Remove(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.names, id)
}

// Names returns a snapshot of every registered display name, in no
// particular order. Duplicate names appear once per connection holding them.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.names))
	for _, name := range r.names {
		names = append(names, name)
	}
	return names
}

// Len reports how many connections are currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.names)
}
