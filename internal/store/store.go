package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist in a collection.
var ErrNotFound = errors.New("document not found")

// Document is a single record inside a logical collection.
type Document struct {
	ID        string
	Data      map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the document store the import pipeline runs against. Collections
// are schemaless; semantics mirror a Firestore-style keyed collection with
// merge-capable writes.
type Store interface {
	// List returns every document in the collection. Reference collections
	// are small (tens to low thousands of rows), so full scans are the
	// intended access pattern here.
	List(ctx context.Context, collection string) ([]Document, error)
	// Get loads one document, returning ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Set writes a document at a known id. With merge, fields present in
	// data overwrite and absent fields are left untouched; without merge
	// the document is replaced. Either way updated_at is refreshed.
	Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error
	// Add inserts a document under a generated id and returns the id.
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// Delete removes a document if present.
	Delete(ctx context.Context, collection, id string) error
}
