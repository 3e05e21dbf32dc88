// Package storage defines the snapshot sink contract and a small registry of
// backends. Backends register themselves from init; callers open one by kind.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is a table-oriented sink.
type Repository interface {
	// Exec runs a statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	// CopyFrom inserts rows aligned to columns and returns the number inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind  string
	DSN   string
	Table string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens the backend registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
