package secrets

import (
	"fmt"
	"strings"

	kenv "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvProvider derives bundles from process environment variables.
//
// Convention: for logical name "pg_prod" it collects every variable named
// PG_PROD_<FIELD>, strips the prefix and lowercases the remainder, so
// PG_PROD_HOST=localhost yields {"host": "localhost"}.
type EnvProvider struct{}

// NewEnvProvider returns the default environment-derived provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Get scans the environment for variables prefixed with the uppercased
// logical name. No matching variables means an empty bundle, not an error.
func (p *EnvProvider) Get(name string) (Bundle, error) {
	prefix := strings.ToUpper(name) + "_"

	k := koanf.New(".")
	err := k.Load(kenv.Provider(prefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, prefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	bundle := Bundle{}
	for key, value := range k.All() {
		bundle[key] = fmt.Sprintf("%v", value)
	}
	return bundle, nil
}
