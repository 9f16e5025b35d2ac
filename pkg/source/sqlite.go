package source

import "fmt"

type sqliteParams struct {
	Path     *string  `mapstructure:"path"`
	ReadOnly *bool    `mapstructure:"read_only"`
	Tables   []string `mapstructure:"tables"`
}

// sqliteHandler attaches a single-file SQLite database through DuckDB's
// sqlite extension. No secret is involved; the file path is the whole
// connection story.
type sqliteHandler struct {
	name   string
	params sqliteParams
}

func newSQLiteHandler(ctx *handlerContext) (*sqliteHandler, error) {
	var p sqliteParams
	if err := ctx.decode(&p); err != nil {
		return nil, &InvalidConfigError{Source: ctx.name, Reason: err.Error()}
	}
	if p.Path == nil || *p.Path == "" {
		return nil, &InvalidConfigError{Source: ctx.name, Reason: "sqlite source requires a 'path'"}
	}
	return &sqliteHandler{name: ctx.name, params: p}, nil
}

func (h *sqliteHandler) Name() string { return h.name }

func (h *sqliteHandler) Type() Type { return TypeSQLite }

func (h *sqliteHandler) RequiredPlugins() []string { return []string{"sqlite"} }

func (h *sqliteHandler) RenderSQL() ([]string, error) {
	stmts := []string{h.attachSQL()}
	for _, table := range h.params.Tables {
		stmts = append(stmts, createViewSQL(h.name, table))
	}
	return stmts, nil
}

func (h *sqliteHandler) attachSQL() string {
	readOnly := ", READ_ONLY"
	if h.params.ReadOnly != nil && !*h.params.ReadOnly {
		readOnly = ""
	}
	return fmt.Sprintf("ATTACH %s AS %s (TYPE SQLITE%s);",
		sqlString(*h.params.Path), h.name, readOnly)
}
