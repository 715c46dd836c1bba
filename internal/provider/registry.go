package provider

import (
	"fmt"

	"github.com/nmilosev/evalgate/internal/domain"
)

// UnknownProviderError is returned when a model identifier names a provider
// the registry has no client for. Fatal to that single request only.
type UnknownProviderError struct {
	Provider domain.Provider
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Provider)
}

// Registry maps provider tags to pre-constructed clients. It holds no
// mutable state after construction.
type Registry struct {
	clients         map[domain.Provider]Client
	defaultProvider domain.Provider
}

func NewRegistry(defaultProvider domain.Provider) *Registry {
	if defaultProvider == "" {
		defaultProvider = domain.DefaultProvider
	}
	return &Registry{
		clients:         make(map[domain.Provider]Client),
		defaultProvider: defaultProvider,
	}
}

// Register installs a client for a provider tag. Configuration-time only;
// not safe to call after Resolve is in use concurrently.
func (r *Registry) Register(p domain.Provider, c Client) {
	r.clients[p] = c
}

// Resolve parses a "provider:model" identifier and returns the client that
// serves it. A bare model name resolves under the default provider.
func (r *Registry) Resolve(identifier string) (Client, domain.ModelIdentifier, error) {
	id, err := domain.ParseModelIdentifier(identifier)
	if err != nil {
		return nil, domain.ModelIdentifier{}, err
	}
	client, err := r.ResolveID(id)
	return client, id, err
}

// ResolveID returns the client for an already-parsed identifier.
func (r *Registry) ResolveID(id domain.ModelIdentifier) (Client, error) {
	p := id.Provider
	if p == "" {
		p = r.defaultProvider
	}
	client, ok := r.clients[p]
	if !ok {
		return nil, &UnknownProviderError{Provider: p}
	}
	return client, nil
}

// Providers lists the registered provider tags.
func (r *Registry) Providers() []domain.Provider {
	providers := make([]domain.Provider, 0, len(r.clients))
	for p := range r.clients {
		providers = append(providers, p)
	}
	return providers
}
