package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/ekiourk/quackpipe/pkg/secrets"
	"github.com/ekiourk/quackpipe/pkg/source"
)

// Statement is one rendered setup statement attributed to the source it
// came from.
type Statement struct {
	Source string
	SQL    string
}

// Plan is the fully rendered setup for an ordered list of sources: the
// deduplicated extension list and every statement in execution order.
type Plan struct {
	Plugins    []string
	Statements []Statement
}

// Preparer turns source configurations into executed setup SQL against a
// connection. It owns handler instances only for the duration of one
// Prepare call.
type Preparer struct {
	resolver *secrets.Resolver
	logger   *slog.Logger
}

// NewPreparer builds a preparer. A nil resolver gets the default
// environment-backed chain; a nil logger discards.
func NewPreparer(resolver *secrets.Resolver, logger *slog.Logger) *Preparer {
	if resolver == nil {
		resolver = secrets.NewResolver()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Preparer{resolver: resolver, logger: logger}
}

// Plan instantiates a handler per config entry and renders everything
// without touching a connection. Entries whose type has no handler are
// logged and skipped; any other construction or rendering failure aborts.
// Plugins are sorted so one run's install order is deterministic.
func (p *Preparer) Plan(configs []source.Config) (*Plan, error) {
	handlers := make([]source.Handler, 0, len(configs))
	for _, cfg := range configs {
		h, err := source.New(cfg, p.resolver)
		if err != nil {
			var unsupported *source.UnsupportedTypeError
			if errors.As(err, &unsupported) {
				p.logger.Warn("no handler for source type, skipping",
					"source", cfg.Name, "type", string(cfg.Type))
				continue
			}
			return nil, fmt.Errorf("source %q: %w", cfg.Name, err)
		}
		handlers = append(handlers, h)
	}

	plan := &Plan{}
	seen := make(map[string]struct{})
	for _, h := range handlers {
		for _, plugin := range h.RequiredPlugins() {
			if _, ok := seen[plugin]; ok {
				continue
			}
			seen[plugin] = struct{}{}
			plan.Plugins = append(plan.Plugins, plugin)
		}
	}
	sort.Strings(plan.Plugins)

	for _, h := range handlers {
		stmts, err := h.RenderSQL()
		if err != nil {
			return nil, fmt.Errorf("rendering SQL for source %q: %w", h.Name(), err)
		}
		for _, stmt := range stmts {
			plan.Statements = append(plan.Statements, Statement{Source: h.Name(), SQL: stmt})
		}
	}

	return plan, nil
}

// Prepare configures conn for the given sources: install and load each
// required extension exactly once, then execute every handler's setup SQL
// in config order. An empty config list is a no-op with zero side
// effects. The first failure aborts; already executed statements are not
// rolled back.
func (p *Preparer) Prepare(ctx context.Context, conn Connection, configs []source.Config) error {
	if len(configs) == 0 {
		return nil
	}

	plan, err := p.Plan(configs)
	if err != nil {
		return err
	}

	for _, plugin := range plan.Plugins {
		if err := conn.InstallExtension(ctx, plugin); err != nil {
			return fmt.Errorf("installing extension %q: %w", plugin, err)
		}
		if err := conn.LoadExtension(ctx, plugin); err != nil {
			return fmt.Errorf("loading extension %q: %w", plugin, err)
		}
	}

	for _, stmt := range plan.Statements {
		if err := conn.Execute(ctx, stmt.SQL); err != nil {
			return fmt.Errorf("setting up source %q: %w", stmt.Source, err)
		}
	}

	return nil
}
