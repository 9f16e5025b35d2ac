package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekiourk/quackpipe/pkg/secrets"
)

func TestS3HandlerSecretMode(t *testing.T) {
	resolver := newTestResolver(map[string]secrets.Bundle{
		"aws_creds": {
			"access_key_id":     "AWS_KEY",
			"secret_access_key": "AWS_SECRET",
			"session_token":     "AWS_TOKEN",
		},
	})

	h, err := New(Config{
		Name:       "aws_explicit",
		Type:       TypeS3,
		SecretName: "aws_creds",
		Config:     map[string]any{"region": "us-east-1"},
	}, resolver)
	require.NoError(t, err)
	assert.Equal(t, []string{"httpfs"}, h.RequiredPlugins())

	stmts, err := h.RenderSQL()
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	assert.Equal(t, strings.Join([]string{
		"CREATE OR REPLACE SECRET aws_explicit_secret (",
		"    TYPE S3,",
		"    KEY_ID 'AWS_KEY',",
		"    SECRET 'AWS_SECRET',",
		"    REGION 'us-east-1',",
		"    SESSION_TOKEN 'AWS_TOKEN'",
		");",
	}, "\n"), stmts[0])
}

func TestS3HandlerSecretModeBooleans(t *testing.T) {
	resolver := newTestResolver(map[string]secrets.Bundle{
		"minio_creds": {
			"access_key_id":     "MINIO_KEY",
			"secret_access_key": "MINIO_SECRET",
		},
	})

	h, err := New(Config{
		Name:       "minio_test",
		Type:       TypeS3,
		SecretName: "minio_creds",
		Config: map[string]any{
			"endpoint":  "localhost:9000",
			"use_ssl":   false,
			"url_style": "path",
		},
	}, resolver)
	require.NoError(t, err)

	stmts, err := h.RenderSQL()
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	assert.Contains(t, stmts[0], "KEY_ID 'MINIO_KEY'")
	assert.Contains(t, stmts[0], "ENDPOINT 'localhost:9000'")
	assert.Contains(t, stmts[0], "URL_STYLE 'path'")
	// Booleans render as lowercase SQL literals, unquoted.
	assert.Contains(t, stmts[0], "USE_SSL false")
	assert.NotContains(t, stmts[0], "'false'")
}

func TestS3HandlerAmbientMode(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
		want   []string
	}{
		{
			name: "region and endpoint",
			config: map[string]any{
				"region":   "us-west-2",
				"endpoint": "s3.us-west-2.amazonaws.com",
				"use_ssl":  true,
			},
			want: []string{
				"SET s3_region = 'us-west-2';",
				"SET s3_endpoint = 's3.us-west-2.amazonaws.com';",
				"SET s3_use_ssl = true;",
			},
		},
		{
			name:   "region only",
			config: map[string]any{"region": "eu-central-1"},
			want:   []string{"SET s3_region = 'eu-central-1';"},
		},
		{
			name:   "no relevant keys renders nothing",
			config: map[string]any{"some_other_key": "value"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(Config{Name: "iam_test", Type: TypeS3, Config: tt.config}, newTestResolver(nil))
			require.NoError(t, err)

			stmts, err := h.RenderSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmts)
		})
	}
}

func TestS3HandlerAmbientModeNeverSetsCredentials(t *testing.T) {
	// Credential fields in the config must not leak into SET statements;
	// platform-native discovery owns them in ambient mode.
	h, err := New(Config{
		Name: "iam_test",
		Type: TypeS3,
		Config: map[string]any{
			"region":            "us-west-2",
			"access_key_id":     "SHOULD_NOT_APPEAR",
			"secret_access_key": "SHOULD_NOT_APPEAR",
		},
	}, newTestResolver(nil))
	require.NoError(t, err)

	stmts, err := h.RenderSQL()
	require.NoError(t, err)

	for _, stmt := range stmts {
		assert.NotContains(t, stmt, "SHOULD_NOT_APPEAR")
		assert.NotContains(t, stmt, "access_key")
	}
}
