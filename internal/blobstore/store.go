// Package blobstore provides named-blob storage backends for the persisted
// note document: Redis, PostgreSQL, SQLite, a git working copy and memory.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no blob is stored under the key.
var ErrNotFound = errors.New("blob not found")

// Store is a generic get/set/delete blob collaborator.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverGit      = "git"
)

type Options struct {
	Driver      string
	RedisURL    string
	DatabaseURL string
	SQLitePath  string
	GitDir      string
}

// Open connects the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(ctx, opts.RedisURL)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.SQLitePath)
	case DriverGit:
		return OpenGit(opts.GitDir)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
