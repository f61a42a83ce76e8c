package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentName returns a document name no other test uses.
func DocumentName() string {
	return "test-" + uuid.New().String()[:8]
}

// SeedDocument writes data under name directly, bypassing the backend.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, name string, data []byte) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO documents (name, data, updated_at) VALUES ($1, $2, now())`,
		name, data,
	)
	if err != nil {
		t.Fatalf("SeedDocument: %v", err)
	}
}

// CountBackups returns how many backup rows exist for name.
func CountBackups(t *testing.T, pool *pgxpool.Pool, name string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM document_backups WHERE name = $1`, name,
	).Scan(&n)
	if err != nil {
		t.Fatalf("CountBackups: %v", err)
	}
	return n
}
