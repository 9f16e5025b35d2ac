package source

import "fmt"

type s3Params struct {
	AccessKeyID     *string `mapstructure:"access_key_id"`
	SecretAccessKey *string `mapstructure:"secret_access_key"`
	Region          *string `mapstructure:"region"`
	SessionToken    *string `mapstructure:"session_token"`
	Endpoint        *string `mapstructure:"endpoint"`
	URLStyle        *string `mapstructure:"url_style"`
	UseSSL          *bool   `mapstructure:"use_ssl"`
	Path            *string `mapstructure:"path"`
}

// s3Handler configures S3 access through DuckDB's httpfs extension in one
// of two mutually exclusive modes:
//
//   - secret mode (a secret_name is configured): render a named S3 secret
//     with explicit credentials;
//   - ambient mode (no secret_name): render SET statements for the
//     non-credential settings only, leaving key discovery to the
//     platform's native credential chain (IAM roles, env vars).
type s3Handler struct {
	name       string
	secretMode bool
	params     s3Params
}

func newS3Handler(ctx *handlerContext) (*s3Handler, error) {
	var p s3Params
	if err := ctx.decode(&p); err != nil {
		return nil, &InvalidConfigError{Source: ctx.name, Reason: err.Error()}
	}
	return &s3Handler{name: ctx.name, secretMode: ctx.secretName != "", params: p}, nil
}

func (h *s3Handler) Name() string { return h.name }

func (h *s3Handler) Type() Type { return TypeS3 }

func (h *s3Handler) RequiredPlugins() []string { return []string{"httpfs"} }

func (h *s3Handler) RenderSQL() ([]string, error) {
	if h.secretMode {
		return []string{createSecretSQL(h.name+"_secret", "S3", s3SecretParams(&h.params))}, nil
	}
	return h.setStatements(), nil
}

// s3SecretParams maps context fields onto DuckDB's S3 secret keys.
// Shared with the ducklake storage rendering.
func s3SecretParams(p *s3Params) *secretParams {
	var params secretParams
	params.addString("KEY_ID", p.AccessKeyID)
	params.addString("SECRET", p.SecretAccessKey)
	params.addString("REGION", p.Region)
	params.addString("SESSION_TOKEN", p.SessionToken)
	params.addString("ENDPOINT", p.Endpoint)
	params.addString("URL_STYLE", p.URLStyle)
	params.addBool("USE_SSL", p.UseSSL)
	return &params
}

// setStatements renders session-level settings for ambient-credential
// access. Access key and secret variables are deliberately never set.
// With no relevant keys present the result is an empty sequence.
func (h *s3Handler) setStatements() []string {
	var stmts []string
	set := func(variable, literal string) {
		stmts = append(stmts, fmt.Sprintf("SET %s = %s;", variable, literal))
	}

	if h.params.Region != nil {
		set("s3_region", sqlString(*h.params.Region))
	}
	if h.params.Endpoint != nil {
		set("s3_endpoint", sqlString(*h.params.Endpoint))
	}
	if h.params.URLStyle != nil {
		set("s3_url_style", sqlString(*h.params.URLStyle))
	}
	if h.params.UseSSL != nil {
		set("s3_use_ssl", sqlBool(*h.params.UseSSL))
	}
	return stmts
}
