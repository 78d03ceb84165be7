package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/msbhamoo/myark-admin-api/internal/store"
)

// Lookup indexes one reference collection by id and by normalized name, so
// validators can resolve foreign-key-like cells case- and whitespace-
// insensitively.
type Lookup struct {
	byID   map[string]store.Document
	byName map[string]store.Document
}

func newLookup(docs []store.Document) Lookup {
	l := Lookup{
		byID:   make(map[string]store.Document, len(docs)),
		byName: make(map[string]store.Document, len(docs)),
	}
	for _, doc := range docs {
		l.byID[doc.ID] = doc
		if name, ok := doc.Data["name"].(string); ok {
			key := normalizeName(name)
			if key != "" {
				l.byName[key] = doc
			}
		}
	}
	return l
}

// Resolve tries the value as an id first, then as a normalized name.
func (l Lookup) Resolve(value string) (store.Document, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return store.Document{}, false
	}
	if doc, ok := l.byID[trimmed]; ok {
		return doc, true
	}
	doc, ok := l.byName[normalizeName(trimmed)]
	return doc, ok
}

// CanonicalName returns the stored name of a resolved document.
func CanonicalName(doc store.Document) string {
	if name, ok := doc.Data["name"].(string); ok {
		return strings.TrimSpace(name)
	}
	return ""
}

// Snapshot is the read-only, batch-scoped bundle of reference collections one
// entity type validates against. It is rebuilt on every preview or commit
// call; staleness is bounded to a single batch.
type Snapshot struct {
	collections map[string]Lookup
}

// Collection returns the lookup for a reference collection. Asking for a
// collection the entity did not declare yields an empty lookup.
func (s *Snapshot) Collection(name string) Lookup {
	if s == nil {
		return Lookup{}
	}
	return s.collections[name]
}

// BuildSnapshot loads every reference collection the entity depends on. A
// failed fetch fails the whole build: validating against a partial snapshot
// would mislabel every foreign-key reference as invalid.
func BuildSnapshot(ctx context.Context, entity Entity, st store.Store) (*Snapshot, error) {
	def, ok := definitions[entity]
	if !ok {
		return nil, fmt.Errorf("unsupported entity %q", entity)
	}

	snap := &Snapshot{collections: make(map[string]Lookup, len(def.References))}
	for _, collection := range def.References {
		docs, err := st.List(ctx, collection)
		if err != nil {
			return nil, fmt.Errorf("load reference collection %s: %w", collection, err)
		}
		snap.collections[collection] = newLookup(docs)
	}
	return snap, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
