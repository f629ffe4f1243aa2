package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "retailclean/internal/ddl"
	"retailclean/internal/schema"
	"retailclean/internal/storage"
)

// Dialect renders double-quoted identifiers and CREATE TABLE IF NOT EXISTS.
// Dotted names such as "main.events" have each segment quoted.
var Dialect = gddl.Dialect{
	Name:       "sqlite ddl",
	QuoteIdent: QuoteIdent,
	MapType:    MapType,
	Wrap: func(fqn, body string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, body)
	},
}

// QuoteIdent double-quotes id, doubling embedded quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// EnsureTable creates table for contract c if it does not exist.
func EnsureTable(ctx context.Context, repo storage.Repository, table string, c schema.Contract) error {
	def, err := Dialect.FromContract(c, table)
	if err != nil {
		return err
	}
	sql, err := Dialect.BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}
