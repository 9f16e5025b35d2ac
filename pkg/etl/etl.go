// Package etl provides small data-movement helpers over a prepared
// session: copying query results out to object storage or into an
// attached writable database.
package etl

import (
	"context"
	"fmt"
	"strings"

	"github.com/ekiourk/quackpipe/pkg/source"
)

// Executor runs SQL statements; *session.DB and *session.Session both
// satisfy it.
type Executor interface {
	Execute(ctx context.Context, sql string) error
}

// Format is an output file format for object-storage destinations.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
)

// Mode selects how data lands in a database destination.
type Mode string

const (
	// ModeReplace drops and recreates the destination table.
	ModeReplace Mode = "replace"

	// ModeAppend inserts into the existing destination table.
	ModeAppend Mode = "append"
)

// CreateTableAs materializes a query into a local table.
func CreateTableAs(ctx context.Context, conn Executor, table, query string) error {
	return conn.Execute(ctx, fmt.Sprintf("CREATE OR REPLACE TABLE %s AS %s", table, query))
}

// MoveData copies the result of sourceQuery into the destination named
// destName among configs, as tableName. S3 destinations receive a COPY TO
// file in the given format under the destination's path; postgres
// destinations must be configured writable (read_only: false) and receive
// the rows as a table.
func MoveData(ctx context.Context, conn Executor, sourceQuery, destName, tableName string, configs []source.Config, format Format, mode Mode) error {
	dest, ok := findConfig(configs, destName)
	if !ok {
		return fmt.Errorf("destination %q not found in configs", destName)
	}

	switch dest.Type {
	case source.TypeS3:
		return copyToObjectStorage(ctx, conn, dest, sourceQuery, tableName, format)
	case source.TypePostgres:
		return writeToDatabase(ctx, conn, dest, sourceQuery, tableName, mode)
	default:
		return fmt.Errorf("destination %q: unsupported destination type %q", destName, dest.Type)
	}
}

func copyToObjectStorage(ctx context.Context, conn Executor, dest source.Config, query, tableName string, format Format) error {
	path, _ := dest.Config["path"].(string)
	if path == "" {
		return fmt.Errorf("destination %q: s3 destination requires a 'path'", dest.Name)
	}

	target := strings.TrimSuffix(path, "/") + "/" + tableName + "." + string(format)
	stmt := fmt.Sprintf("COPY (%s) TO '%s' (FORMAT %s);", query, target, strings.ToUpper(string(format)))
	return conn.Execute(ctx, stmt)
}

func writeToDatabase(ctx context.Context, conn Executor, dest source.Config, query, tableName string, mode Mode) error {
	// Attached databases default to read-only; writing requires the
	// destination to opt out explicitly.
	if readOnly, ok := dest.Config["read_only"].(bool); !ok || readOnly {
		return fmt.Errorf("destination %q is not writable; set read_only: false", dest.Name)
	}

	qualified := dest.Name + "." + tableName
	switch mode {
	case ModeAppend:
		return conn.Execute(ctx, fmt.Sprintf("INSERT INTO %s (%s);", qualified, query))
	case ModeReplace, "":
		if err := conn.Execute(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", qualified)); err != nil {
			return err
		}
		return conn.Execute(ctx, fmt.Sprintf("CREATE TABLE %s AS (%s);", qualified, query))
	default:
		return fmt.Errorf("unknown write mode %q", mode)
	}
}

func findConfig(configs []source.Config, name string) (source.Config, bool) {
	for _, cfg := range configs {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return source.Config{}, false
}
