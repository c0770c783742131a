// Package backend selects and opens one of the interchangeable storage
// backends. Selection is resolved once at startup; when MongoDB is chosen
// but unreachable, the process falls back to the in-memory store instead of
// refusing to start, and the fallback is logged.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jeyasuryak/chai-fi/internal/store"
	"github.com/jeyasuryak/chai-fi/internal/store/memory"
	storemongo "github.com/jeyasuryak/chai-fi/internal/store/mongo"
	storesqlite "github.com/jeyasuryak/chai-fi/internal/store/sqlite"
)

type Type string

const (
	Memory Type = "memory"
	Mongo  Type = "mongo"
	SQLite Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case Memory, Mongo, SQLite:
		return true
	default:
		return false
	}
}

// Config holds everything needed to open any backend type.
type Config struct {
	Type Type

	// Mongo specific
	MongoURI      string
	MongoDatabase string

	// SQLite specific
	SQLitePath string
}

// Validate checks that the selected backend has the settings it needs.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case Mongo:
		if c.MongoURI == "" {
			return fmt.Errorf("mongo URI is required for mongo backend")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("mongo database name is required for mongo backend")
		}
	case SQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("database path is required for sqlite backend")
		}
	}
	return nil
}

// Result contains the opened store and the backend actually in use, which
// can differ from the requested one after a fallback.
type Result struct {
	Store  store.Store
	Active Type
}

// Open opens the configured backend. A mongo connection failure degrades to
// the in-memory store; any other failure is returned to the caller.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case Mongo:
		st, err := storemongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logger.Warn("MongoDB unavailable, falling back to in-memory storage",
				"error", err,
				"database", cfg.MongoDatabase)
			return &Result{Store: memory.New(), Active: Memory}, nil
		}
		logger.Info("Initialized MongoDB backend", "database", cfg.MongoDatabase)
		return &Result{Store: st, Active: Mongo}, nil

	case SQLite:
		st, err := storesqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLitePath)
		return &Result{Store: st, Active: SQLite}, nil

	default:
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New(), Active: Memory}, nil
	}
}
