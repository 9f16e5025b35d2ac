package source

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/ekiourk/quackpipe/pkg/secrets"
)

// handlerContext is the merged input a handler renders from: the source's
// config map overlaid with its resolved secret bundle, plus the connection
// and secret names. Built once at construction and read-only afterwards;
// nothing else may influence rendered SQL.
type handlerContext struct {
	name       string
	secretName string
	values     map[string]any
}

func newHandlerContext(name, secretName string, config map[string]any, resolver *secrets.Resolver) (*handlerContext, error) {
	bundle, err := resolver.Resolve(secretName)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(config)+len(bundle))
	for k, v := range config {
		values[k] = v
	}
	// Secret fields shadow config fields of the same name.
	for k, v := range bundle {
		values[k] = v
	}

	return &handlerContext{name: name, secretName: secretName, values: values}, nil
}

// decode unmarshals the merged values into a typed params struct. Weak
// typing is deliberate: secret bundles carry strings, so "5432" must land
// in an *int and "false" in a *bool.
func (c *handlerContext) decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(c.values)
}

// section returns a nested config map (e.g. a ducklake "catalog" block).
// Empty sections count as absent.
func (c *handlerContext) section(key string) (map[string]any, bool) {
	m, ok := c.values[key].(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return m, true
}
