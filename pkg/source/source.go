// Package source turns declarative data-source descriptions into the
// ordered DuckDB setup SQL (secret creation, attach, views) and the
// extension list each source needs.
//
// The set of source kinds is closed: adding one means adding a case to
// New, not registering at runtime. Kinds read from external config that
// have no handler (parquet, csv, future kinds) surface as
// *UnsupportedTypeError so callers can skip them.
package source

import (
	"fmt"

	"github.com/ekiourk/quackpipe/pkg/secrets"
)

// Type identifies a data-source kind.
type Type string

// Supported source kinds. Parquet and CSV are recognized configuration
// kinds without a handler yet.
const (
	TypePostgres Type = "postgres"
	TypeSQLite   Type = "sqlite"
	TypeS3       Type = "s3"
	TypeDuckLake Type = "ducklake"
	TypeParquet  Type = "parquet"
	TypeCSV      Type = "csv"
)

// ParseType maps a config string to a Type.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypePostgres, TypeSQLite, TypeS3, TypeDuckLake, TypeParquet, TypeCSV:
		return t, nil
	default:
		return "", fmt.Errorf("unknown source type %q", s)
	}
}

// Config describes one data source. It is immutable once constructed:
// handlers read it, nothing writes it.
type Config struct {
	// Name is the unique identifier; it becomes the attached database
	// name and the prefix for generated secrets and views.
	Name string

	// Type selects the handler variant.
	Type Type

	// Config holds type-specific parameters. Composite types nest
	// sub-sections here (e.g. "catalog", "storage").
	Config map[string]any

	// SecretName is an optional logical reference into the secret
	// resolver chain.
	SecretName string
}

// Handler renders the setup SQL for one configured source. Handlers hold
// no mutable state: rendering is a pure function of the context captured
// at construction, so repeated calls yield byte-identical SQL.
type Handler interface {
	// Name is the connection name the handler was built for.
	Name() string

	// Type reports the handler's source kind.
	Type() Type

	// RequiredPlugins lists the DuckDB extensions this source needs.
	RequiredPlugins() []string

	// RenderSQL returns the setup statements in execution order:
	// secrets before attach before views.
	RenderSQL() ([]string, error)
}

// InvalidConfigError reports a malformed or incomplete source
// configuration, raised at handler construction.
type InvalidConfigError struct {
	Source string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config for source %q: %s", e.Source, e.Reason)
}

// UnsupportedTypeError is returned by New for source kinds without a
// handler. Callers preparing a batch treat it as skippable.
type UnsupportedTypeError struct {
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("no handler for source type %q (handled types: %v)", e.Type, HandledTypes())
}

// HandledTypes returns the kinds New can build a handler for.
func HandledTypes() []Type {
	return []Type{TypeDuckLake, TypePostgres, TypeS3, TypeSQLite}
}

// New builds the handler for cfg. The resolver is consulted exactly once
// per secret reference during construction; a nil resolver gets the
// default environment-backed chain.
//
// Returns *UnsupportedTypeError for kinds without a handler,
// *secrets.NotFoundError when a referenced secret resolves nowhere, and
// *InvalidConfigError for malformed configuration.
func New(cfg Config, resolver *secrets.Resolver) (Handler, error) {
	if resolver == nil {
		resolver = secrets.NewResolver()
	}

	switch cfg.Type {
	case TypePostgres, TypeSQLite, TypeS3, TypeDuckLake:
	default:
		return nil, &UnsupportedTypeError{Type: cfg.Type}
	}

	ctx, err := newHandlerContext(cfg.Name, cfg.SecretName, cfg.Config, resolver)
	if err != nil {
		return nil, err
	}

	switch cfg.Type {
	case TypePostgres:
		return newPostgresHandler(ctx)
	case TypeSQLite:
		return newSQLiteHandler(ctx)
	case TypeS3:
		return newS3Handler(ctx)
	default:
		return newDuckLakeHandler(ctx, resolver)
	}
}
