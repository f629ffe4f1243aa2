package postgres

import (
	"context"
	"fmt"

	"retailclean/internal/schema"
	"retailclean/internal/storage"
	pgddl "retailclean/internal/storage/postgres/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to *Repository and
// calling the close function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres",
		func(ctx context.Context, repo storage.Repository, table string, c schema.Contract) error {
			if err := pgddl.EnsureTable(ctx, repo, table, c); err != nil {
				return fmt.Errorf("apply DDL: %w", err)
			}
			return nil
		})
}
