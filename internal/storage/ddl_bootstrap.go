package storage

import (
	"context"
	"fmt"
	"sync"

	"retailclean/internal/schema"
)

// DDLBootstrapper builds a backend-specific table definition for contract c
// stored as table and applies it via repo.Exec. Backends register one per
// storage kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string, c schema.Contract) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the DDLBootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable creates table for contract c if the backend registered for kind
// knows how to. It errors when no bootstrapper is registered.
func EnsureTable(ctx context.Context, kind string, repo Repository, table string, c schema.Contract) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, table, c)
}
