package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msbhamoo/myark-admin-api/internal/store"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "science-foundation-of-india", Slugify("  Science Foundation of India "))
	assert.Equal(t, "acme-inc", Slugify("Acme, Inc."))
	assert.Equal(t, "", Slugify("  ---  "))
}

func TestPersistCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	rec := &OrganizerRecord{Name: "Science Foundation of India", Type: "ngo", Visibility: "public"}

	outcome, err := Persist(ctx, EntityOrganizers, st, rec)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	// Importing the same record again converges on the same document.
	outcome, err = Persist(ctx, EntityOrganizers, st, rec)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)

	docs, err := st.List(ctx, CollectionOrganizers)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "science-foundation-of-india", docs[0].ID)
}

func TestPersistExplicitIDWins(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	outcome, err := Persist(ctx, EntityOrganizers, st, &OrganizerRecord{
		ID:   "org-42",
		Name: "Science Foundation of India",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	doc, err := st.Get(ctx, CollectionOrganizers, "org-42")
	require.NoError(t, err)
	assert.Equal(t, "Science Foundation of India", doc.Data["name"])
}

func TestPersistMergePreservesUnrelatedFields(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	st.Seed(CollectionOrganizers, "org-42", map[string]interface{}{
		"name":          "Science Foundation of India",
		"featuredOrder": 3,
	})

	_, err := Persist(ctx, EntityOrganizers, st, &OrganizerRecord{
		ID:   "org-42",
		Name: "Science Foundation of India",
		Type: "ngo",
	})
	require.NoError(t, err)

	doc, err := st.Get(ctx, CollectionOrganizers, "org-42")
	require.NoError(t, err)
	// Fields managed outside the importer survive a merge update.
	assert.Equal(t, 3, doc.Data["featuredOrder"])
	assert.Equal(t, "ngo", doc.Data["type"])
}

func TestPersistUnaddressableRecord(t *testing.T) {
	_, err := Persist(context.Background(), EntityOrganizers, store.NewMemoryStore(), &OrganizerRecord{})
	require.Error(t, err)
}
