package ddl

import (
	"context"

	"retailclean/internal/schema"
	"retailclean/internal/storage"
)

// EnsureTable creates table for contract c if it does not exist. It is
// idempotent: the statement is CREATE TABLE IF NOT EXISTS.
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
