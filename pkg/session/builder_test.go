package session

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekiourk/quackpipe/internal/testutil"
	"github.com/ekiourk/quackpipe/pkg/source"
)

func TestBuilderRequiresSources(t *testing.T) {
	_, err := NewBuilder().Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sources")
}

func TestBuilderConfigsPreserveOrder(t *testing.T) {
	b := NewBuilder().
		AddSource("pg_main", source.TypePostgres, map[string]any{"database": "app"}, "pg_creds").
		AddSource("datalake", source.TypeS3, map[string]any{"region": "eu-west-1"}, "")

	configs := b.Configs()
	require.Len(t, configs, 2)
	assert.Equal(t, "pg_main", configs[0].Name)
	assert.Equal(t, "datalake", configs[1].Name)

	// Mutating the copy must not reach the builder.
	configs[0].Name = "mutated"
	assert.Equal(t, "pg_main", b.Configs()[0].Name)
}

func TestBuilderConfigsRoundTripThroughPlan(t *testing.T) {
	b := NewBuilder().
		AddSource("pg_main", source.TypePostgres, map[string]any{"database": "app"}, "pg_creds").
		AddSource("datalake", source.TypeS3, map[string]any{"region": "eu-west-1"}, "")

	p := NewPreparer(testResolver(), testutil.NewTestLogger(t))
	plan, err := p.Plan(b.Configs())
	require.NoError(t, err)

	var attachedPG, setRegion bool
	for _, stmt := range plan.Statements {
		if strings.Contains(stmt.SQL, "ATTACH 'dbname=app' AS pg_main") {
			attachedPG = true
		}
		if stmt.SQL == "SET s3_region = 'eu-west-1';" {
			setRegion = true
			assert.Equal(t, "datalake", stmt.Source)
		}
	}
	assert.True(t, attachedPG, "postgres source attaches under its connection name")
	assert.True(t, setRegion, "s3 source configures ambient region")
}

func TestFilterConfigs(t *testing.T) {
	configs := []source.Config{
		{Name: "a", Type: source.TypeS3},
		{Name: "b", Type: source.TypePostgres},
		{Name: "c", Type: source.TypeSQLite},
	}

	filtered := filterConfigs(configs, []string{"c", "a"})
	require.Len(t, filtered, 2)
	// Config order wins over the order of the requested names.
	assert.Equal(t, "a", filtered[0].Name)
	assert.Equal(t, "c", filtered[1].Name)

	assert.Equal(t, configs, filterConfigs(configs, nil))
}
