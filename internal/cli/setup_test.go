package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flags live in package-level vars; reset between runs.
	cfgFile, dbPath, secretsDir, verbose = "", "", "", false

	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetupDryRunPrintsPlan(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "quackpipe.yaml", `
sources:
  datalake:
    type: s3
    region: eu-west-1
  archive:
    type: sqlite
    path: /data/archive.db
    tables: [events]
`)

	out, err := runCommand(t, "setup", "--config", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "INSTALL httpfs;\nLOAD httpfs;")
	assert.Contains(t, out, "INSTALL sqlite;\nLOAD sqlite;")
	assert.Contains(t, out, "-- source: archive")
	assert.Contains(t, out, "ATTACH '/data/archive.db' AS archive (TYPE SQLITE, READ_ONLY);")
	assert.Contains(t, out, "-- source: datalake")
	assert.Contains(t, out, "SET s3_region = 'eu-west-1';")

	// Sources render sorted by name, archive first.
	assert.Less(t, strings.Index(out, "-- source: archive"), strings.Index(out, "-- source: datalake"))
}

func TestSetupUsesFileSecrets(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "quackpipe.yaml", `
sources:
  pg_main:
    type: postgres
    secret_name: pg_creds
    database: appdb
`)

	secretsPath := filepath.Join(dir, "secrets")
	require.NoError(t, os.Mkdir(secretsPath, 0o755))
	writeFile(t, secretsPath, "pg_creds.yaml", "host: db.internal\nuser: app\npassword: hunter2\n")

	out, err := runCommand(t, "setup", "--config", cfg, "--secrets-dir", secretsPath)
	require.NoError(t, err)

	assert.Contains(t, out, "CREATE OR REPLACE SECRET pg_main_secret (")
	assert.Contains(t, out, "HOST 'db.internal'")
	assert.Contains(t, out, "PASSWORD 'hunter2'")
	assert.Contains(t, out, "ATTACH 'dbname=appdb' AS pg_main (TYPE POSTGRES, SECRET 'pg_main_secret', READ_ONLY);")
}

func TestSetupMissingSecretFails(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "quackpipe.yaml", `
sources:
  pg_main:
    type: postgres
    secret_name: definitely_not_set_anywhere_12345
    database: appdb
`)

	_, err := runCommand(t, "setup", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely_not_set_anywhere_12345")
}

func TestSetupMissingConfigFile(t *testing.T) {
	_, err := runCommand(t, "setup", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
