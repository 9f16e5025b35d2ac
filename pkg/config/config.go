// Package config loads source configurations from YAML files.
//
// Layout:
//
//	sources:
//	  pg_main:
//	    type: postgres
//	    secret_name: pg_creds
//	    database: appdb
//	    tables: [users, orders]
//	  datalake:
//	    type: s3
//	    region: eu-west-1
package config

import (
	"fmt"
	"sort"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ekiourk/quackpipe/pkg/source"
)

// Load reads path and returns its sources. YAML mappings carry no
// reliable order, so entries are sorted by name to keep preparation order
// deterministic.
func Load(path string) ([]source.Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(k.Raw())
}

func parse(raw map[string]any) ([]source.Config, error) {
	sourcesRaw, ok := raw["sources"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config has no 'sources' section")
	}

	names := make([]string, 0, len(sourcesRaw))
	for name := range sourcesRaw {
		names = append(names, name)
	}
	sort.Strings(names)

	configs := make([]source.Config, 0, len(names))
	for _, name := range names {
		details, ok := sourcesRaw[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("source %q: expected a mapping", name)
		}

		typeStr, ok := details["type"].(string)
		if !ok || typeStr == "" {
			return nil, fmt.Errorf("source %q: missing 'type'", name)
		}
		typ, err := source.ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}

		secretName, _ := details["secret_name"].(string)

		cfg := make(map[string]any, len(details))
		for key, value := range details {
			if key == "type" || key == "secret_name" {
				continue
			}
			cfg[key] = value
		}

		configs = append(configs, source.Config{
			Name:       name,
			Type:       typ,
			Config:     cfg,
			SecretName: secretName,
		})
	}

	return configs, nil
}
