package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/promptc/internal/domain"
)

// Registry implements the PromptRegistry interface.
type Registry struct {
	mu      sync.RWMutex
	prompts map[string]domain.PromptFunc
}

// NewRegistry creates a new prompt registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:      sync.RWMutex{},
		prompts: make(map[string]domain.PromptFunc),
	}
}

// Register adds a prompt function to the registry.
func (r *Registry) Register(_ context.Context, fn domain.PromptFunc) error {
	if fn == nil {
		return errors.New("prompt function cannot be nil")
	}

	name := fn.Name()
	if name == "" {
		return errors.New("prompt name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.prompts[name]; exists {
		return fmt.Errorf("prompt %s already registered", name)
	}

	r.prompts[name] = fn

	return nil
}

// Get retrieves a prompt function by name.
func (r *Registry) Get(_ context.Context, name string) (domain.PromptFunc, error) {
	if name == "" {
		return nil, errors.New("prompt name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.prompts[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrPromptNotFound, name)
	}

	return fn, nil
}

// List returns all registered prompt names in sorted order.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.prompts))
	for name := range r.prompts {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
