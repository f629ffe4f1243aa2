// Package storage contains the backend-agnostic warehouse sink: a Repository
// contract, a registry of backend factories keyed by storage kind, table
// bootstrapping, and a batched loader. Concrete backends register themselves
// from init functions; import internal/storage/all to enable them.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal surface every backend implements.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to columns and reports how many rows
	// the backend accepted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close()
}

// Config selects a backend and the table it writes.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind, replacing any previous
// registration.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
