package source

import (
	"fmt"

	"github.com/ekiourk/quackpipe/pkg/secrets"
)

// ducklakeHandler attaches a DuckLake: a metadata catalog (postgres or a
// single sqlite file) paired with a data storage backend (s3 or local
// filesystem) under one logical attachment.
//
// Rendering order: the nested backends contribute only their secret
// statements, then a single DUCKLAKE-type secret ties the catalog
// location and data path together, then one ATTACH names that secret.
// The nested backends never emit ATTACH statements of their own.
type ducklakeHandler struct {
	name    string
	catalog catalogBackend
	storage storageBackend
}

// catalogBackend is the metadata side of a lake.
type catalogBackend interface {
	plugins() []string
	secretSQL() []string
	metadataPath() string
	// metadataParams renders the METADATA_PARAMETERS map literal, or ""
	// when the catalog needs none.
	metadataParams() string
}

// storageBackend is the data side of a lake.
type storageBackend interface {
	plugins() []string
	secretSQL() []string
	dataPath() string
}

func newDuckLakeHandler(ctx *handlerContext, resolver *secrets.Resolver) (*ducklakeHandler, error) {
	catalogSection, ok := ctx.section("catalog")
	if !ok {
		return nil, &InvalidConfigError{Source: ctx.name, Reason: "ducklake source requires a 'catalog' section"}
	}
	storageSection, ok := ctx.section("storage")
	if !ok {
		return nil, &InvalidConfigError{Source: ctx.name, Reason: "ducklake source requires a 'storage' section"}
	}

	catalog, err := newCatalogBackend(ctx.name, catalogSection, resolver)
	if err != nil {
		return nil, err
	}
	storage, err := newStorageBackend(ctx.name, storageSection, resolver)
	if err != nil {
		return nil, err
	}

	return &ducklakeHandler{name: ctx.name, catalog: catalog, storage: storage}, nil
}

func (h *ducklakeHandler) Name() string { return h.name }

func (h *ducklakeHandler) Type() Type { return TypeDuckLake }

// RequiredPlugins is the union of the lake extension and whatever the
// nested backends need; it depends on the nested kinds, not on the
// ducklake type alone.
func (h *ducklakeHandler) RequiredPlugins() []string {
	plugins := []string{"ducklake"}
	plugins = append(plugins, h.catalog.plugins()...)
	plugins = append(plugins, h.storage.plugins()...)
	return plugins
}

func (h *ducklakeHandler) RenderSQL() ([]string, error) {
	var stmts []string
	stmts = append(stmts, h.catalog.secretSQL()...)
	stmts = append(stmts, h.storage.secretSQL()...)
	stmts = append(stmts, h.lakeSecretSQL())
	stmts = append(stmts, fmt.Sprintf("ATTACH 'ducklake:%s' AS %s;", h.secretName(), h.name))
	return stmts, nil
}

func (h *ducklakeHandler) secretName() string { return h.name + "_secret" }

// lakeSecretSQL renders the combined catalog-descriptor secret: metadata
// location, data path, and a reference to the catalog's own secret when
// it has one.
func (h *ducklakeHandler) lakeSecretSQL() string {
	var params secretParams
	metadataPath := h.catalog.metadataPath()
	dataPath := h.storage.dataPath()
	params.addString("METADATA_PATH", &metadataPath)
	params.addString("DATA_PATH", &dataPath)
	if mp := h.catalog.metadataParams(); mp != "" {
		params.addRaw("METADATA_PARAMETERS", mp)
	}
	return createSecretSQL(h.secretName(), "DUCKLAKE", &params)
}

// newCatalogBackend selects the catalog variant by the section's declared
// kind. Absent kind means postgres, matching the common lake layout.
func newCatalogBackend(name string, section map[string]any, resolver *secrets.Resolver) (catalogBackend, error) {
	kind := sectionKind(section, TypePostgres)
	sub, err := sectionContext(name, section, resolver)
	if err != nil {
		return nil, err
	}

	switch kind {
	case TypePostgres:
		var p postgresParams
		if err := sub.decode(&p); err != nil {
			return nil, &InvalidConfigError{Source: name, Reason: err.Error()}
		}
		return &postgresCatalog{secretName: name + "_catalog_secret", params: p}, nil
	case TypeSQLite:
		var p sqliteParams
		if err := sub.decode(&p); err != nil {
			return nil, &InvalidConfigError{Source: name, Reason: err.Error()}
		}
		if p.Path == nil || *p.Path == "" {
			return nil, &InvalidConfigError{Source: name, Reason: "sqlite catalog requires a 'path'"}
		}
		return &sqliteCatalog{path: *p.Path}, nil
	default:
		return nil, &InvalidConfigError{Source: name, Reason: fmt.Sprintf("unsupported ducklake catalog type %q", kind)}
	}
}

// newStorageBackend selects the storage variant by the section's declared
// kind. Absent kind means s3.
func newStorageBackend(name string, section map[string]any, resolver *secrets.Resolver) (storageBackend, error) {
	kind := sectionKind(section, TypeS3)
	sub, err := sectionContext(name, section, resolver)
	if err != nil {
		return nil, err
	}

	switch kind {
	case TypeS3:
		var p s3Params
		if err := sub.decode(&p); err != nil {
			return nil, &InvalidConfigError{Source: name, Reason: err.Error()}
		}
		if p.Path == nil || *p.Path == "" {
			return nil, &InvalidConfigError{Source: name, Reason: "s3 storage requires a 'path'"}
		}
		return &s3Storage{secretName: name + "_storage_secret", params: p}, nil
	case Type("local"):
		var p localParams
		if err := sub.decode(&p); err != nil {
			return nil, &InvalidConfigError{Source: name, Reason: err.Error()}
		}
		if p.Path == nil || *p.Path == "" {
			return nil, &InvalidConfigError{Source: name, Reason: "local storage requires a 'path'"}
		}
		return &localStorage{path: *p.Path}, nil
	default:
		return nil, &InvalidConfigError{Source: name, Reason: fmt.Sprintf("unsupported ducklake storage type %q", kind)}
	}
}

func sectionKind(section map[string]any, fallback Type) Type {
	if s, ok := section["type"].(string); ok && s != "" {
		return Type(s)
	}
	return fallback
}

// sectionContext builds a nested handler context for a catalog or storage
// section, resolving the section's own secret reference.
func sectionContext(name string, section map[string]any, resolver *secrets.Resolver) (*handlerContext, error) {
	secretName, _ := section["secret_name"].(string)
	return newHandlerContext(name, secretName, section, resolver)
}

// postgresCatalog keeps lake metadata in a PostgreSQL database. It emits
// its own credential secret and points the lake secret at it.
type postgresCatalog struct {
	secretName string
	params     postgresParams
}

func (c *postgresCatalog) plugins() []string { return []string{"postgres"} }

func (c *postgresCatalog) secretSQL() []string {
	return []string{createSecretSQL(c.secretName, "POSTGRES", postgresSecretParams(&c.params))}
}

func (c *postgresCatalog) metadataPath() string { return "" }

func (c *postgresCatalog) metadataParams() string {
	return fmt.Sprintf("MAP {'TYPE': 'postgres', 'SECRET': %s}", sqlString(c.secretName))
}

// sqliteCatalog keeps lake metadata in a single local file; no secret
// needed.
type sqliteCatalog struct {
	path string
}

func (c *sqliteCatalog) plugins() []string { return []string{"sqlite"} }

func (c *sqliteCatalog) secretSQL() []string { return nil }

func (c *sqliteCatalog) metadataPath() string { return c.path }

func (c *sqliteCatalog) metadataParams() string {
	return "MAP {'TYPE': 'sqlite'}"
}

// s3Storage keeps lake data under an S3 prefix and emits a storage
// credential secret.
type s3Storage struct {
	secretName string
	params     s3Params
}

func (s *s3Storage) plugins() []string { return []string{"httpfs"} }

func (s *s3Storage) secretSQL() []string {
	return []string{createSecretSQL(s.secretName, "S3", s3SecretParams(&s.params))}
}

func (s *s3Storage) dataPath() string { return *s.params.Path }

type localParams struct {
	Path *string `mapstructure:"path"`
}

// localStorage keeps lake data on the local filesystem; nothing to
// configure beyond the path.
type localStorage struct {
	path string
}

func (s *localStorage) plugins() []string { return nil }

func (s *localStorage) secretSQL() []string { return nil }

func (s *localStorage) dataPath() string { return s.path }
