package source

import (
	"fmt"
	"strconv"
	"strings"
)

// SQL literal rendering shared by all handlers: strings are quoted with
// embedded quotes doubled, numbers are bare, booleans are the lowercase
// SQL literals. Absent (nil) parameters are omitted entirely rather than
// rendered as NULL.

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlBool(b bool) string {
	return strconv.FormatBool(b)
}

func sqlInt(i int) string {
	return strconv.Itoa(i)
}

// secretParams accumulates the parameter lines of a CREATE SECRET
// statement, skipping absent values.
type secretParams struct {
	lines []string
}

func (p *secretParams) addString(key string, v *string) {
	if v != nil {
		p.addRaw(key, sqlString(*v))
	}
}

func (p *secretParams) addInt(key string, v *int) {
	if v != nil {
		p.addRaw(key, sqlInt(*v))
	}
}

func (p *secretParams) addBool(key string, v *bool) {
	if v != nil {
		p.addRaw(key, sqlBool(*v))
	}
}

func (p *secretParams) addRaw(key, literal string) {
	p.lines = append(p.lines, fmt.Sprintf("    %s %s", key, literal))
}

// createSecretSQL renders a CREATE OR REPLACE SECRET statement of the
// given secret type with the accumulated parameters.
func createSecretSQL(name, secretType string, params *secretParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE SECRET %s (\n    TYPE %s", name, secretType)
	for _, line := range params.lines {
		b.WriteString(",\n")
		b.WriteString(line)
	}
	b.WriteString("\n);")
	return b.String()
}

// createViewSQL renders the per-table convenience view over an attached
// database.
func createViewSQL(connectionName, table string) string {
	return fmt.Sprintf("CREATE OR REPLACE VIEW %s_%s AS SELECT * FROM %s.%s;",
		connectionName, table, connectionName, table)
}
