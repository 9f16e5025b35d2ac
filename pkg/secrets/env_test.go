package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvProviderGet(t *testing.T) {
	t.Setenv("PG_PROD_HOST", "localhost")
	t.Setenv("PG_PROD_USER", "testuser")
	t.Setenv("PG_PROD_PASSWORD", "testpass")
	t.Setenv("PG_PROD_DATABASE", "testdb")
	t.Setenv("PG_PRODUCTION_HOST", "elsewhere") // different logical name

	bundle, err := NewEnvProvider().Get("pg_prod")
	require.NoError(t, err)

	assert.Equal(t, Bundle{
		"host":     "localhost",
		"user":     "testuser",
		"password": "testpass",
		"database": "testdb",
	}, bundle)
}

func TestEnvProviderMultiWordFields(t *testing.T) {
	t.Setenv("AWS_CREDS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_CREDS_SECRET_ACCESS_KEY", "shh")

	bundle, err := NewEnvProvider().Get("aws_creds")
	require.NoError(t, err)

	assert.Equal(t, "AKIA", bundle["access_key_id"])
	assert.Equal(t, "shh", bundle["secret_access_key"])
}

func TestEnvProviderNoMatches(t *testing.T) {
	bundle, err := NewEnvProvider().Get("definitely_not_configured")
	require.NoError(t, err)
	assert.Empty(t, bundle)
}
