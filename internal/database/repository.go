package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Compile-time verification that *Repository implements DataStore
var _ DataStore = (*Repository)(nil)

// Repository is the SQLite-backed DataStore.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*UserRepo
	*ProjectRepo
	*TaskRepo

	db *sql.DB
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		UserRepo:    &UserRepo{db: db},
		ProjectRepo: &ProjectRepo{db: db},
		TaskRepo:    &TaskRepo{db: db},
		db:          db,
	}
}

// Ping verifies the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying database
func (r *Repository) Close() error {
	return r.db.Close()
}

// Storage drivers accepted by Open
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open builds the DataStore selected by driver. path is only used by sqlite.
func Open(ctx context.Context, driver, path string) (DataStore, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemStore(), nil
	case DriverSQLite:
		if path == "" {
			path = MemoryDSN
		}
		db, err := InitDB(ctx, path)
		if err != nil {
			return nil, err
		}
		return NewRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
