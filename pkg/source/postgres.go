package source

import "fmt"

// postgresParams are the recognized fields of a postgres source context.
// Pointer fields distinguish absent from zero so absent keys stay out of
// the rendered SQL.
type postgresParams struct {
	Host     *string  `mapstructure:"host"`
	Port     *int     `mapstructure:"port"`
	Database *string  `mapstructure:"database"`
	User     *string  `mapstructure:"user"`
	Password *string  `mapstructure:"password"`
	ReadOnly *bool    `mapstructure:"read_only"`
	Tables   []string `mapstructure:"tables"`
}

// postgresHandler attaches a PostgreSQL database through DuckDB's
// postgres extension using the CREATE SECRET + ATTACH pattern.
type postgresHandler struct {
	name   string
	params postgresParams
}

func newPostgresHandler(ctx *handlerContext) (*postgresHandler, error) {
	var p postgresParams
	if err := ctx.decode(&p); err != nil {
		return nil, &InvalidConfigError{Source: ctx.name, Reason: err.Error()}
	}
	return &postgresHandler{name: ctx.name, params: p}, nil
}

func (h *postgresHandler) Name() string { return h.name }

func (h *postgresHandler) Type() Type { return TypePostgres }

func (h *postgresHandler) RequiredPlugins() []string { return []string{"postgres"} }

func (h *postgresHandler) RenderSQL() ([]string, error) {
	stmts := []string{h.secretSQL(), h.attachSQL()}
	for _, table := range h.params.Tables {
		stmts = append(stmts, createViewSQL(h.name, table))
	}
	return stmts, nil
}

func (h *postgresHandler) secretName() string { return h.name + "_secret" }

func (h *postgresHandler) secretSQL() string {
	return createSecretSQL(h.secretName(), "POSTGRES", postgresSecretParams(&h.params))
}

// postgresSecretParams maps context fields onto DuckDB's postgres secret
// keys. Shared with the ducklake catalog rendering.
func postgresSecretParams(p *postgresParams) *secretParams {
	var params secretParams
	params.addString("HOST", p.Host)
	params.addInt("PORT", p.Port)
	params.addString("DATABASE", p.Database)
	params.addString("USER", p.User)
	params.addString("PASSWORD", p.Password)
	return &params
}

func (h *postgresHandler) attachSQL() string {
	database := ""
	if h.params.Database != nil {
		database = *h.params.Database
	}

	// READ_ONLY is the default; it disappears only when read_only is
	// explicitly false.
	readOnly := ", READ_ONLY"
	if h.params.ReadOnly != nil && !*h.params.ReadOnly {
		readOnly = ""
	}

	return fmt.Sprintf("ATTACH 'dbname=%s' AS %s (TYPE POSTGRES, SECRET '%s'%s);",
		database, h.name, h.secretName(), readOnly)
}
