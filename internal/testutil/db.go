package testutil

import (
	"context"
	"testing"

	"github.com/thenoetrevino/checklist/internal/database"
)

// SetupTestDB creates an in-memory sqlite store with the full schema.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *database.Repository {
	t.Helper()
	db, err := database.InitDB(context.Background(), database.MemoryDSN)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	repo := database.NewRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
