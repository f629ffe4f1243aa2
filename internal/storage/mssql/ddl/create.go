// Package ddl provides MSSQL-specific helpers for generating CREATE TABLE
// statements. T-SQL has no CREATE TABLE IF NOT EXISTS, so the statement is
// wrapped in an IF OBJECT_ID(...) IS NULL guard.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "retailclean/internal/ddl"
	"retailclean/internal/schema"
	"retailclean/internal/storage"
)

// Dialect renders [bracketed] identifiers inside an OBJECT_ID guard:
//
//	IF OBJECT_ID(N'[dbo].[t]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[t] (
//	  [col] TYPE
//	  );
//	END;
var Dialect = gddl.Dialect{
	Name:       "mssql ddl",
	QuoteIdent: QuoteIdent,
	MapType:    MapType,
	Wrap: func(fqn, body string) string {
		return fmt.Sprintf(
			"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n  %s\n  );\nEND;",
			strings.ReplaceAll(fqn, "'", "''"), fqn, body,
		)
	},
}

// QuoteIdent quotes a single identifier segment using bracket syntax,
// escaping closing brackets:
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// EnsureTable creates table for contract c unless it already exists.
func EnsureTable(ctx context.Context, repo storage.Repository, table string, c schema.Contract) error {
	def, err := Dialect.FromContract(c, table)
	if err != nil {
		return fmt.Errorf("build table definition: %w", err)
	}
	sql, err := Dialect.BuildCreateTableSQL(def)
	if err != nil {
		return fmt.Errorf("build create table sql: %w", err)
	}
	if err := repo.Exec(ctx, sql); err != nil {
		return fmt.Errorf("exec create table: %w", err)
	}
	return nil
}
