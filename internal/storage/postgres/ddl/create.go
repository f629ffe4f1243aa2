package ddl

import (
	"fmt"
	"strings"

	gddl "retailclean/internal/ddl"
)

// Dialect renders double-quoted identifiers and CREATE TABLE IF NOT EXISTS.
var Dialect = gddl.Dialect{
	Name:       "postgres ddl",
	QuoteIdent: quoteIdent,
	MapType:    MapType,
	Wrap: func(fqn, body string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, body)
	},
}

// quoteIdent quotes a single identifier segment for Postgres, e.g.:
//
//	quoteIdent(`pcv`)        => `"pcv"`
//	quoteIdent(`weird"name`) => `"weird""name"`
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
