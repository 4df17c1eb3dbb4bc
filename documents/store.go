// Package documents persists uploaded process-definition files between the
// upload and parse endpoints.
package documents

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrNotFound reports a lookup for a document id that was never uploaded
// or has been deleted.
var ErrNotFound = errors.New("document not found")

// Document is one stored process-definition file. ID is the sanitized
// filename; re-uploading the same filename replaces the previous content.
type Document struct {
	ID           string
	Filename     string
	OriginalName string
	Content      []byte
	SizeBytes    int64
	UploadedAt   time.Time
	UpdatedAt    time.Time
}

// Store manages uploaded-document persistence and retrieval.
type Store interface {
	// Put inserts or replaces a document by id.
	Put(doc *Document) error

	// Get retrieves a document by id.
	Get(id string) (*Document, error)

	// List returns all stored documents, oldest upload first.
	List() ([]*Document, error)

	// Delete removes a document.
	Delete(id string) error
}

// InMemoryStore implements Store with a map. Thread-safe; used when no
// database is configured and in tests.
type InMemoryStore struct {
	docs map[string]*Document
	mu   sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		docs: make(map[string]*Document),
	}
}

// Put inserts or replaces a document. The original upload time is
// preserved across replacements.
func (s *InMemoryStore) Put(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.docs[doc.ID]; ok {
		doc.UploadedAt = existing.UploadedAt
	} else {
		doc.UploadedAt = now
	}
	doc.UpdatedAt = now
	s.docs[doc.ID] = doc
	return nil
}

// Get retrieves a document by id.
func (s *InMemoryStore) Get(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return doc, nil
}

// List returns all documents ordered by upload time.
func (s *InMemoryStore) List() ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})
	return docs, nil
}

// Delete removes a document.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}
