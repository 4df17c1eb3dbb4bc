package documents

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store backed by PostgreSQL. The documents
// table is created by the migrations under migrations/.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed Store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Put inserts or replaces a document by id. The original upload time is
// preserved across replacements.
func (s *PostgresStore) Put(doc *Document) error {
	now := time.Now()
	err := s.db.QueryRow(`
		INSERT INTO documents (id, filename, original_name, content, size_bytes, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (id) DO UPDATE
		SET filename = EXCLUDED.filename,
		    original_name = EXCLUDED.original_name,
		    content = EXCLUDED.content,
		    size_bytes = EXCLUDED.size_bytes,
		    updated_at = EXCLUDED.updated_at
		RETURNING uploaded_at, updated_at
	`, doc.ID, doc.Filename, doc.OriginalName, doc.Content, doc.SizeBytes, now).
		Scan(&doc.UploadedAt, &doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// Get retrieves a document by id.
func (s *PostgresStore) Get(id string) (*Document, error) {
	var doc Document
	err := s.db.QueryRow(`
		SELECT id, filename, original_name, content, size_bytes, uploaded_at, updated_at
		FROM documents
		WHERE id = $1
	`, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.OriginalName,
		&doc.Content,
		&doc.SizeBytes,
		&doc.UploadedAt,
		&doc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// List returns all documents ordered by upload time.
func (s *PostgresStore) List() ([]*Document, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, original_name, content, size_bytes, uploaded_at, updated_at
		FROM documents
		ORDER BY uploaded_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.OriginalName, &doc.Content,
			&doc.SizeBytes, &doc.UploadedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document.
func (s *PostgresStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}
