package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ekiourk/quackpipe/pkg/secrets"
	"github.com/ekiourk/quackpipe/pkg/source"
)

// Builder assembles a session programmatically, without a YAML file.
//
//	s, err := session.NewBuilder().
//		AddSource("pg_main", source.TypePostgres, map[string]any{"database": "app"}, "pg_creds").
//		AddSource("datalake", source.TypeS3, map[string]any{"region": "eu-west-1"}, "").
//		Open(ctx)
type Builder struct {
	configs  []source.Config
	path     string
	resolver *secrets.Resolver
	logger   *slog.Logger
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddSource appends a source. Entries are prepared in the order they were
// added.
func (b *Builder) AddSource(name string, typ source.Type, cfg map[string]any, secretName string) *Builder {
	b.configs = append(b.configs, source.Config{
		Name:       name,
		Type:       typ,
		Config:     cfg,
		SecretName: secretName,
	})
	return b
}

// WithPath sets the database file path; default is in-memory.
func (b *Builder) WithPath(path string) *Builder {
	b.path = path
	return b
}

// WithResolver sets the secret resolver for the session.
func (b *Builder) WithResolver(r *secrets.Resolver) *Builder {
	b.resolver = r
	return b
}

// WithLogger sets the logger for preparation warnings.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Configs returns a copy of the sources added so far.
func (b *Builder) Configs() []source.Config {
	out := make([]source.Config, len(b.configs))
	copy(out, b.configs)
	return out
}

// Open builds and opens the session. At least one source is required.
func (b *Builder) Open(ctx context.Context) (*Session, error) {
	if len(b.configs) == 0 {
		return nil, fmt.Errorf("cannot open a session with no sources defined")
	}
	return Open(ctx, Options{
		Path:     b.path,
		Configs:  b.configs,
		Resolver: b.resolver,
		Logger:   b.logger,
	})
}
