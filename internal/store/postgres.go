package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps every collection in a single JSONB documents table.
// Collections here are small and schemaless, which makes one keyed table a
// better fit than per-entity DDL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a document store over the given database.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type documentRow struct {
	ID        string    `db:"id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r documentRow) toDocument() (Document, error) {
	doc := Document{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &doc.Data); err != nil {
			return Document{}, fmt.Errorf("decode document %s: %w", r.ID, err)
		}
	}
	if doc.Data == nil {
		doc.Data = map[string]interface{}{}
	}
	return doc, nil
}

// List returns all documents in a collection ordered by creation time.
func (s *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	const query = `SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1 ORDER BY created_at, id`
	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, collection); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Get loads a single document by id.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	const query = `SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`
	var row documentRow
	if err := s.db.GetContext(ctx, &row, query, collection, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	doc, err := row.toDocument()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Set upserts a document at the given id. Merge semantics use the JSONB
// concatenation operator so absent fields survive the write.
func (s *PostgresStore) Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}

	query := `INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	if merge {
		query = `INSERT INTO documents (collection, id, data, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (collection, id)
			DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = NOW()`
	}

	if _, err := s.db.ExecContext(ctx, query, collection, id, payload); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Add inserts a document under a generated id.
func (s *PostgresStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document %s: %w", collection, err)
	}
	const query = `INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())`
	if _, err := s.db.ExecContext(ctx, query, collection, id, payload); err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	return id, nil
}

// Delete removes a document if present.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := s.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}
