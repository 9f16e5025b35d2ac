package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ekiourk/quackpipe/pkg/config"
	"github.com/ekiourk/quackpipe/pkg/secrets"
	"github.com/ekiourk/quackpipe/pkg/source"
)

// Options configure Open. Either Configs or ConfigFile supplies the
// sources; ConfigFile wins when both are set.
type Options struct {
	// Path is the DuckDB database file; empty means in-memory.
	Path string

	// Configs are the sources to federate, in order.
	Configs []source.Config

	// ConfigFile loads sources from a YAML file instead.
	ConfigFile string

	// Sources optionally restricts preparation to the named subset,
	// preserving config order.
	Sources []string

	// Resolver supplies secret lookup; nil means the default
	// environment-backed chain.
	Resolver *secrets.Resolver

	// Logger receives preparation warnings; nil discards.
	Logger *slog.Logger
}

// Session is a prepared DuckDB connection. The session owns the
// connection: callers must Close it on every exit path.
type Session struct {
	db *DB
}

// Open opens a DuckDB database and runs one preparation pass over the
// selected sources. On any preparation failure the connection is closed
// before returning.
func Open(ctx context.Context, opts Options) (*Session, error) {
	configs := opts.Configs
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		configs = loaded
	}
	configs = filterConfigs(configs, opts.Sources)

	db, err := OpenDB(ctx, opts.Path)
	if err != nil {
		return nil, err
	}

	preparer := NewPreparer(opts.Resolver, opts.Logger)
	if err := preparer.Prepare(ctx, db, configs); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("preparing session: %w", err)
	}

	return &Session{db: db}, nil
}

// With opens a session, invokes fn with it, and closes the connection on
// every exit path, including a panic inside fn.
func With(ctx context.Context, opts Options, fn func(*Session) error) error {
	s, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return fn(s)
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	return s.db.Close()
}

// DB exposes the prepared connection.
func (s *Session) DB() *DB {
	return s.db
}

// Execute runs a statement that returns no rows.
func (s *Session) Execute(ctx context.Context, sqlStr string) error {
	return s.db.Execute(ctx, sqlStr)
}

// Query runs a statement that returns rows.
func (s *Session) Query(ctx context.Context, sqlStr string) (*sql.Rows, error) {
	return s.db.Query(ctx, sqlStr)
}

func filterConfigs(configs []source.Config, names []string) []source.Config {
	if len(names) == 0 {
		return configs
	}
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		keep[n] = struct{}{}
	}
	filtered := make([]source.Config, 0, len(configs))
	for _, cfg := range configs {
		if _, ok := keep[cfg.Name]; ok {
			filtered = append(filtered, cfg)
		}
	}
	return filtered
}
