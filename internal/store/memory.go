package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed Store used by tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	order       map[string][]string
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		order:       make(map[string][]string),
	}
}

// Seed inserts a document directly, bypassing timestamps bookkeeping. Intended
// for test fixtures.
func (s *MemoryStore) Seed(collection, id string, data map[string]interface{}) {
	_ = s.Set(context.Background(), collection, id, data, false)
}

// List returns all documents in insertion order.
func (s *MemoryStore) List(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.order[collection]
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.collections[collection][id]; ok {
			docs = append(docs, cloneDocument(doc))
		}
	}
	return docs, nil
}

// Get loads one document.
func (s *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneDocument(doc)
	return &clone, nil
}

// Set upserts a document at the given id.
func (s *MemoryStore) Set(_ context.Context, collection, id string, data map[string]interface{}, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}

	existing, exists := s.collections[collection][id]
	doc := Document{ID: id, CreatedAt: now, UpdatedAt: now, Data: cloneData(data)}
	if exists {
		doc.CreatedAt = existing.CreatedAt
		if merge {
			merged := cloneData(existing.Data)
			for k, v := range data {
				merged[k] = v
			}
			doc.Data = merged
		}
	} else {
		s.order[collection] = append(s.order[collection], id)
	}

	s.collections[collection][id] = doc
	return nil
}

// Add inserts a document under a generated id.
func (s *MemoryStore) Add(_ context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()
	return id, s.Set(context.Background(), collection, id, data, false)
}

// Delete removes a document if present.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func cloneDocument(doc Document) Document {
	clone := doc
	clone.Data = cloneData(doc.Data)
	return clone
}

func cloneData(data map[string]interface{}) map[string]interface{} {
	clone := make(map[string]interface{}, len(data))
	for k, v := range data {
		clone[k] = v
	}
	return clone
}
