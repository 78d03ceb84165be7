package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msbhamoo/myark-admin-api/internal/dto"
	"github.com/msbhamoo/myark-admin-api/internal/middleware"
	"github.com/msbhamoo/myark-admin-api/internal/models"
	"github.com/msbhamoo/myark-admin-api/internal/service"
	appErrors "github.com/msbhamoo/myark-admin-api/pkg/errors"
)

type importServiceMock struct {
	previewResp  *dto.PreviewResponse
	previewErr   error
	commitResp   *dto.CommitResponse
	commitErr    error
	templateErr  error
	lastEntity   string
	lastFileName string
	lastContent  []byte
	lastActor    service.Actor
}

func (m *importServiceMock) Preview(ctx context.Context, entity, fileName string, content []byte, actor service.Actor) (*dto.PreviewResponse, error) {
	m.lastEntity = entity
	m.lastFileName = fileName
	m.lastContent = content
	m.lastActor = actor
	if m.previewErr != nil {
		return nil, m.previewErr
	}
	return m.previewResp, nil
}

func (m *importServiceMock) Commit(ctx context.Context, entity string, req dto.CommitRequest, actor service.Actor) (*dto.CommitResponse, error) {
	m.lastEntity = entity
	m.lastActor = actor
	if m.commitErr != nil {
		return nil, m.commitErr
	}
	return m.commitResp, nil
}

func (m *importServiceMock) Template(ctx context.Context, entity string) ([]byte, string, error) {
	m.lastEntity = entity
	if m.templateErr != nil {
		return nil, "", m.templateErr
	}
	return []byte("name,type\n,\n"), entity + "-template.csv", nil
}

func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestImportHandlerPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &importServiceMock{previewResp: &dto.PreviewResponse{
		Entity:  "organizers",
		Headers: []string{"name"},
		Totals:  dto.PreviewTotals{Total: 1, Valid: 1},
	}}
	handler := NewImportHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, contentType := multipartCSV(t, "name\nAcme\n")
	req, _ := http.NewRequest(http.MethodPost, "/admin/imports/organizers/preview", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req
	c.Params = gin.Params{{Key: "entity", Value: "organizers"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Preview(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "organizers", mock.lastEntity)
	assert.Equal(t, "upload.csv", mock.lastFileName)
	assert.Equal(t, "name\nAcme\n", string(mock.lastContent))
	assert.Equal(t, "admin-1", mock.lastActor.UserID)
}

func TestImportHandlerPreviewMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&importServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/imports/organizers/preview", bytes.NewReader(nil))
	c.Request = req
	c.Params = gin.Params{{Key: "entity", Value: "organizers"}}

	handler.Preview(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportHandlerCommit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &importServiceMock{commitResp: &dto.CommitResponse{
		Entity:  "organizers",
		Summary: dto.CommitSummary{Total: 1, Created: 1},
		Failed:  []dto.FailedRow{},
	}}
	handler := NewImportHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(dto.CommitRequest{Rows: []dto.CommitRow{
		{Raw: map[string]string{"name": "Acme"}},
	}})
	req, _ := http.NewRequest(http.MethodPost, "/admin/imports/organizers/commit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "entity", Value: "organizers"}}

	handler.Commit(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.CommitResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Summary.Created)
}

func TestImportHandlerCommitInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&importServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/imports/organizers/commit", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "entity", Value: "organizers"}}

	handler.Commit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportHandlerCommitUnsupportedEntity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&importServiceMock{commitErr: appErrors.ErrUnsupportedEntity})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	payload, _ := json.Marshal(dto.CommitRequest{Rows: []dto.CommitRow{{Raw: map[string]string{}}}})
	req, _ := http.NewRequest(http.MethodPost, "/admin/imports/gadgets/commit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "entity", Value: "gadgets"}}

	handler.Commit(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportHandlerTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(&importServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/imports/organizers/template", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "entity", Value: "organizers"}}

	handler.Template(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "organizers-template.csv")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}
