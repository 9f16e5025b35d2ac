// Package secrets resolves logical secret names to credential bundles
// through an ordered chain of providers. The first provider returning a
// non-empty bundle wins; bundles are never merged across providers.
package secrets

import (
	"errors"
	"fmt"
)

// Bundle is a flat set of credential fields for one logical secret name,
// e.g. {"host": "localhost", "user": "u", "password": "p"}.
type Bundle map[string]string

// Provider fetches a bundle for a logical secret name. Absence is not an
// error: a provider that has no data for the name returns an empty bundle
// and a nil error. A provider either returns the full bundle it holds or
// an empty one; it never partially populates.
type Provider interface {
	Get(name string) (Bundle, error)
}

// ErrInvalidProvider is returned when a nil provider is installed into a
// resolver chain.
var ErrInvalidProvider = errors.New("secrets: provider must be non-nil")

// NotFoundError indicates that a logical secret name exhausted every
// provider in the chain without producing a bundle.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("secret bundle %q not found in any configured provider", e.Name)
}

// Resolver holds an ordered provider chain. It is a plain value passed to
// whatever constructs source handlers; there is no process-wide chain.
// A Resolver is safe for concurrent Resolve calls as long as SetProviders
// is not called concurrently.
type Resolver struct {
	providers []Provider
}

// NewResolver builds a resolver over the given providers, tried in order.
// With no providers it defaults to a single environment-derived provider.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{}
	if len(providers) == 0 {
		providers = []Provider{NewEnvProvider()}
	}
	// The only SetProviders failure mode is a nil element.
	_ = r.SetProviders(providers)
	return r
}

// SetProviders replaces the provider chain. Every element must be non-nil;
// otherwise ErrInvalidProvider is returned and the chain is unchanged.
func (r *Resolver) SetProviders(providers []Provider) error {
	for _, p := range providers {
		if p == nil {
			return ErrInvalidProvider
		}
	}
	r.providers = providers
	return nil
}

// Resolve fetches the bundle for a logical name. An empty name yields an
// empty bundle without consulting any provider. Providers are tried in
// order and the first non-empty bundle is returned as-is. Exhausting the
// chain yields a *NotFoundError.
func (r *Resolver) Resolve(name string) (Bundle, error) {
	if name == "" {
		return Bundle{}, nil
	}

	for _, p := range r.providers {
		bundle, err := p.Get(name)
		if err != nil {
			return nil, fmt.Errorf("secret provider failed for %q: %w", name, err)
		}
		if len(bundle) > 0 {
			return bundle, nil
		}
	}

	return nil, &NotFoundError{Name: name}
}
