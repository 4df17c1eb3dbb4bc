//go:build integration

package documents

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL testcontainer and applies the documents
// migration.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start postgres container")

	host, err := postgres.Host(ctx)
	require.NoError(t, err)
	port, err := postgres.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://postgres:password@%s:%s/testdb?sslmode=disable", host, port.Port())
	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		if err := db.Ping(); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	migrationSQL, err := os.ReadFile("../migrations/000001_create_documents.up.sql")
	require.NoError(t, err, "failed to read migration file")
	_, err = db.Exec(string(migrationSQL))
	require.NoError(t, err, "failed to run migration")

	cleanup := func() {
		db.Close()
		postgres.Terminate(ctx)
	}
	return db, cleanup
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPostgresStore(db)

	doc := &Document{
		ID:           "order.process",
		Filename:     "order.process",
		OriginalName: "Order Routing.process",
		Content:      []byte(`<ProcessDefinition name="OrderRouting"/>`),
		SizeBytes:    41,
	}
	require.NoError(t, store.Put(doc))
	assert.False(t, doc.UploadedAt.IsZero())

	got, err := store.Get("order.process")
	require.NoError(t, err)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, "Order Routing.process", got.OriginalName)

	_, err = store.Get("missing.xml")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStoreUpsertPreservesUploadTime(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPostgresStore(db)

	first := &Document{ID: "p.xml", Filename: "p.xml", OriginalName: "p.xml", Content: []byte("v1"), SizeBytes: 2}
	require.NoError(t, store.Put(first))
	uploadedAt := first.UploadedAt

	time.Sleep(50 * time.Millisecond)

	second := &Document{ID: "p.xml", Filename: "p.xml", OriginalName: "p.xml", Content: []byte("v2"), SizeBytes: 2}
	require.NoError(t, store.Put(second))

	got, err := store.Get("p.xml")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got.Content)
	assert.WithinDuration(t, uploadedAt, got.UploadedAt, time.Millisecond)
	assert.True(t, got.UpdatedAt.After(got.UploadedAt))
}

func TestPostgresStoreListAndDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPostgresStore(db)

	for _, id := range []string{"a.xml", "b.xml"} {
		require.NoError(t, store.Put(&Document{ID: id, Filename: id, OriginalName: id, Content: []byte("x"), SizeBytes: 1}))
	}

	docs, err := store.List()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.xml", docs[0].ID)

	require.NoError(t, store.Delete("a.xml"))
	assert.ErrorIs(t, store.Delete("a.xml"), ErrNotFound)

	docs, err = store.List()
	require.NoError(t, err)
	require.Len(t, docs, 1)
}
