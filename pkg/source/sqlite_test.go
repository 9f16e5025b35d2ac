package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteHandlerRenderSQL(t *testing.T) {
	h, err := New(Config{
		Name: "archive",
		Type: TypeSQLite,
		Config: map[string]any{
			"path":   "/data/archive.db",
			"tables": []string{"events"},
		},
	}, newTestResolver(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"sqlite"}, h.RequiredPlugins())

	stmts, err := h.RenderSQL()
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Equal(t, "ATTACH '/data/archive.db' AS archive (TYPE SQLITE, READ_ONLY);", stmts[0])
	assert.Equal(t, "CREATE OR REPLACE VIEW archive_events AS SELECT * FROM archive.events;", stmts[1])
}

func TestSQLiteHandlerWritable(t *testing.T) {
	h, err := New(Config{
		Name:   "scratch",
		Type:   TypeSQLite,
		Config: map[string]any{"path": "scratch.db", "read_only": false},
	}, newTestResolver(nil))
	require.NoError(t, err)

	stmts, err := h.RenderSQL()
	require.NoError(t, err)
	assert.Equal(t, "ATTACH 'scratch.db' AS scratch (TYPE SQLITE);", stmts[0])
}

func TestSQLiteHandlerRequiresPath(t *testing.T) {
	_, err := New(Config{Name: "archive", Type: TypeSQLite, Config: map[string]any{}}, newTestResolver(nil))
	require.Error(t, err)

	var invalid *InvalidConfigError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "path")
}
