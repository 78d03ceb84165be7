package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msbhamoo/myark-admin-api/internal/dto"
	"github.com/msbhamoo/myark-admin-api/internal/store"
	appErrors "github.com/msbhamoo/myark-admin-api/pkg/errors"
)

func newImportService(st store.Store) *ImportService {
	return NewImportService(st, nil, nil, nil, nil, nil, ImportConfig{MaxRows: 500})
}

func intPtr(v int) *int { return &v }

func TestPreviewValidatesEveryRow(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newImportService(st)

	csv := "name,type,foundationYear\nAcme Trust,ngo,1998\n,charity,soon\n"
	resp, err := svc.Preview(context.Background(), "organizers", "organizers.csv", []byte(csv), Actor{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "type", "foundationYear"}, resp.Headers)
	assert.Equal(t, dto.PreviewTotals{Total: 2, Valid: 1, Invalid: 1}, resp.Totals)

	require.Len(t, resp.Rows, 2)
	first := resp.Rows[0]
	assert.Equal(t, 2, first.Index)
	assert.Empty(t, first.Errors)
	assert.Equal(t, "Acme Trust", first.Data["name"])

	second := resp.Rows[1]
	assert.Equal(t, 3, second.Index)
	assert.Nil(t, second.Data)
	assert.Contains(t, second.Errors, "Name is required")

	// Preview writes nothing.
	docs, err := st.List(context.Background(), "organizers")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestPreviewUnsupportedEntity(t *testing.T) {
	svc := newImportService(store.NewMemoryStore())

	_, err := svc.Preview(context.Background(), "gadgets", "g.csv", []byte("a\n1\n"), Actor{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedEntity.Code, appErrors.FromError(err).Code)
}

func TestPreviewEmptyFile(t *testing.T) {
	svc := newImportService(store.NewMemoryStore())

	_, err := svc.Preview(context.Background(), "organizers", "o.csv", []byte("   \n  "), Actor{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyFile.Code, appErrors.FromError(err).Code)
}

func TestPreviewNoDataRows(t *testing.T) {
	svc := newImportService(store.NewMemoryStore())

	_, err := svc.Preview(context.Background(), "organizers", "o.csv", []byte("name,type\n"), Actor{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoDataRows.Code, appErrors.FromError(err).Code)
}

func TestPreviewRowLimit(t *testing.T) {
	svc := NewImportService(store.NewMemoryStore(), nil, nil, nil, nil, nil, ImportConfig{MaxRows: 2})

	_, err := svc.Preview(context.Background(), "organizers", "o.csv", []byte("name\nA\nB\nC\n"), Actor{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRowLimitExceeded.Code, appErrors.FromError(err).Code)
}

type brokenStore struct {
	*store.MemoryStore
}

func (s *brokenStore) List(ctx context.Context, collection string) ([]store.Document, error) {
	return nil, errors.New("connection refused")
}

func TestPreviewSnapshotFailureAbortsBatch(t *testing.T) {
	svc := newImportService(&brokenStore{store.NewMemoryStore()})

	_, err := svc.Preview(context.Background(), "opportunities", "o.csv", []byte("title\nScience Fair\n"), Actor{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSnapshotUnavailable.Code, appErrors.FromError(err).Code)
}

func TestCommitPersistsValidRowsAndIsolatesFailures(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed("organizers", "acme-trust", map[string]interface{}{"name": "Acme Trust", "type": "other"})
	svc := newImportService(st)

	resp, err := svc.Commit(context.Background(), "organizers", dto.CommitRequest{Rows: []dto.CommitRow{
		{Index: intPtr(2), Raw: map[string]string{"name": "Acme Trust", "type": "ngo"}},
		{Index: intPtr(3), Raw: map[string]string{"name": "Globex Foundation"}},
		{Index: intPtr(4), Raw: map[string]string{"name": "", "type": "charity"}},
		{Index: nil, Raw: nil},
	}}, Actor{})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Created)
	assert.Equal(t, 1, resp.Summary.Updated)
	assert.Equal(t, 2, resp.Summary.Failed)
	// Every submitted row is accounted for, malformed ones included.
	assert.Equal(t, resp.Summary.Total, resp.Summary.Created+resp.Summary.Updated+resp.Summary.Failed)

	require.Len(t, resp.Failed, 2)
	// Validated failures come first, malformed entries last with a null index.
	require.NotNil(t, resp.Failed[0].Index)
	assert.Equal(t, 4, *resp.Failed[0].Index)
	assert.Contains(t, resp.Failed[0].Errors, "Name is required")
	assert.Nil(t, resp.Failed[1].Index)
	assert.Equal(t, []string{"Row payload is malformed"}, resp.Failed[1].Errors)

	// The existing document was merge-updated, the new one created.
	updated, err := st.Get(context.Background(), "organizers", "acme-trust")
	require.NoError(t, err)
	assert.Equal(t, "ngo", updated.Data["type"])

	_, err = st.Get(context.Background(), "organizers", "globex-foundation")
	require.NoError(t, err)
}

func TestCommitIndexFallsBackToPosition(t *testing.T) {
	svc := newImportService(store.NewMemoryStore())

	resp, err := svc.Commit(context.Background(), "organizers", dto.CommitRequest{Rows: []dto.CommitRow{
		{Raw: map[string]string{"name": ""}},
	}}, Actor{})
	require.NoError(t, err)

	require.Len(t, resp.Failed, 1)
	require.NotNil(t, resp.Failed[0].Index)
	assert.Equal(t, 2, *resp.Failed[0].Index)
}

func TestCommitSummaryCountsMalformedRowsInTotal(t *testing.T) {
	svc := newImportService(store.NewMemoryStore())

	resp, err := svc.Commit(context.Background(), "organizers", dto.CommitRequest{Rows: []dto.CommitRow{
		{Index: intPtr(2), Raw: map[string]string{"name": "Acme Trust", "type": "ngo"}},
		{Index: nil, Raw: nil},
	}}, Actor{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Created)
	assert.Equal(t, 1, resp.Summary.Failed)
	assert.Equal(t, resp.Summary.Total, resp.Summary.Created+resp.Summary.Updated+resp.Summary.Failed)
}

func TestCommitNoRows(t *testing.T) {
	svc := newImportService(store.NewMemoryStore())

	_, err := svc.Commit(context.Background(), "organizers", dto.CommitRequest{}, Actor{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoDataRows.Code, appErrors.FromError(err).Code)

	// All-malformed batches are rejected the same way.
	_, err = svc.Commit(context.Background(), "organizers", dto.CommitRequest{Rows: []dto.CommitRow{{Raw: nil}}}, Actor{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoDataRows.Code, appErrors.FromError(err).Code)
}

func TestCommitReValidatesAgainstFreshSnapshot(t *testing.T) {
	// The referenced category exists at preview time but is gone by commit
	// time; commit must catch it instead of writing a dangling reference.
	st := store.NewMemoryStore()
	st.Seed("categories", "cat-1", map[string]interface{}{"name": "Olympiad"})
	svc := newImportService(st)

	preview, err := svc.Preview(context.Background(), "opportunities", "o.csv",
		[]byte("title,categoryName\nScience Fair,Olympiad\n"), Actor{})
	require.NoError(t, err)
	require.Equal(t, 1, preview.Totals.Valid)

	require.NoError(t, st.Delete(context.Background(), "categories", "cat-1"))

	resp, err := svc.Commit(context.Background(), "opportunities", dto.CommitRequest{Rows: []dto.CommitRow{
		{Index: intPtr(2), Raw: preview.Rows[0].Raw},
	}}, Actor{})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Summary.Created)
	assert.Equal(t, 1, resp.Summary.Failed)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, []string{`Category "Olympiad" not found`}, resp.Failed[0].Errors)
}

func TestTemplateRendersHeadersAndSample(t *testing.T) {
	svc := newImportService(store.NewMemoryStore())

	content, fileName, err := svc.Template(context.Background(), "organizers")
	require.NoError(t, err)
	assert.Equal(t, "organizers-template.csv", fileName)
	assert.Contains(t, string(content), "id,name,address,website,email,phone,logo,description,foundationYear,type,visibility,isVerified\n")
	assert.Contains(t, string(content), "ngo")

	_, _, err = svc.Template(context.Background(), "gadgets")
	require.Error(t, err)
}
