// Package mssql implements a Microsoft SQL Server repository using the
// go-mssqldb bulk copy API.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"retailclean/internal/storage/mssql/ddl"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN     string
	Table   string
	Columns []string
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository parses the DSN, opens the pool and pings the server. The
// returned func closes the pool.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mssql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mssql: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom streams rows through one INSERT BULK statement and commits. Short
// rows are padded with NULLs. Nothing from the batch is kept on error.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (n int64, err error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if n, err = bulkInsert(ctx, tx, r.cfg.Table, columns, rows); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit: %w", err)
	}
	return n, nil
}

func bulkInsert(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error) {
	stmt, err := tx.PrepareContext(ctx, bulkStatement(table, columns))
	if err != nil {
		return 0, fmt.Errorf("mssql: prepare bulk: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for i, row := range rows {
		clear(args)
		for j := 0; j < len(row) && j < len(args); j++ {
			args[j] = toCopyVal(row[j])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("mssql: bulk row %d: %w", i, err)
		}
	}
	// An Exec with no arguments flushes the buffered rows.
	res, err := stmt.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("mssql: bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mssql: rows affected: %w", err)
	}
	return n, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

func bulkStatement(table string, columns []string) string {
	return mssql.CopyIn(ddl.Dialect.QuoteFQN(table), mssql.BulkOptions{}, columns...)
}

// toCopyVal widens plain ints for the bulk encoder; nil stays nil.
func toCopyVal(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	default:
		return v
	}
}
