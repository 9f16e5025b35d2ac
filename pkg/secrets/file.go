package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultSecretsDir is where FileProvider looks when no directory is given.
const DefaultSecretsDir = "secrets"

// FileProvider reads one YAML file per logical secret name from a
// directory: resolving "pg_prod" reads <dir>/pg_prod.yaml (or .yml).
// A missing file is an empty bundle so the next provider in the chain can
// be tried; a malformed file is an error.
type FileProvider struct {
	dir string
}

// NewFileProvider returns a provider rooted at dir. An empty dir falls
// back to DefaultSecretsDir.
func NewFileProvider(dir string) *FileProvider {
	if dir == "" {
		dir = DefaultSecretsDir
	}
	return &FileProvider{dir: dir}
}

// Get loads the bundle for name from <dir>/<name>.yaml or <dir>/<name>.yml.
func (p *FileProvider) Get(name string) (Bundle, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(p.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat secret file %s: %w", path, err)
		}

		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing secret file %s: %w", path, err)
		}

		bundle := Bundle{}
		for key, value := range k.All() {
			bundle[key] = fmt.Sprintf("%v", value)
		}
		return bundle, nil
	}

	return Bundle{}, nil
}
