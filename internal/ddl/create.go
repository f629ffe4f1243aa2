// Package ddl defines a small, backend-agnostic model for SQL DDL and renders
// CREATE TABLE statements from it through a per-backend Dialect.
//
// Backend packages (internal/storage/<kind>/ddl) own their Dialect: how
// identifiers are quoted, how each schema.Kind maps to a column type, and how
// the statement is guarded against an existing table.
package ddl

import (
	"fmt"
	"sort"
	"strings"

	"retailclean/internal/schema"
)

// Dialect captures what differs between SQL backends when creating a table.
type Dialect struct {
	// Name prefixes error messages, e.g. "postgres ddl".
	Name string

	// QuoteIdent quotes a single identifier segment.
	QuoteIdent func(id string) string

	// MapType maps a logical column kind to a column type.
	MapType func(k schema.Kind) string

	// Wrap renders the final statement from the quoted table name and the
	// comma-joined column body.
	Wrap func(quotedFQN, body string) string
}

// QuoteFQN quotes a possibly schema-qualified name segment by segment. Empty
// segments are dropped.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// BuildCreateTableSQL renders a CREATE TABLE statement for t.
//
// Each column renders as
//
//	<quoted name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// Primary-key columns are always NOT NULL and are collected into a trailing
// PRIMARY KEY clause, sorted for determinism. Default is emitted as raw SQL.
func (d Dialect) BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", d.Name, name)
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable || c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.QuoteIdent(name))
		}
	}

	if len(pks) > 0 {
		sort.Strings(pks)
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return d.Wrap(d.QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// FromContract builds a table definition for contract c stored as fqn. The
// first required column is NOT NULL; every other column is nullable because
// missing cells are written as NULL.
func (d Dialect) FromContract(c schema.Contract, fqn string) (TableDef, error) {
	if strings.TrimSpace(fqn) == "" {
		return TableDef{}, fmt.Errorf("%s: table name is required", d.Name)
	}
	if len(c.Fields) == 0 {
		return TableDef{}, fmt.Errorf("%s: contract %q has no fields", d.Name, c.Name)
	}

	key := ""
	if req := c.Required(); len(req) > 0 {
		key = req[0]
	}

	def := TableDef{FQN: fqn, Columns: make([]ColumnDef, 0, len(c.Fields))}
	for _, f := range c.Fields {
		def.Columns = append(def.Columns, ColumnDef{
			Name:     f.Name,
			SQLType:  d.MapType(f.Kind),
			Nullable: f.Name != key,
		})
	}
	return def, nil
}
