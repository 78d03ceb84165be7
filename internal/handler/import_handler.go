package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/msbhamoo/myark-admin-api/internal/dto"
	"github.com/msbhamoo/myark-admin-api/internal/middleware"
	"github.com/msbhamoo/myark-admin-api/internal/models"
	"github.com/msbhamoo/myark-admin-api/internal/service"
	appErrors "github.com/msbhamoo/myark-admin-api/pkg/errors"
	"github.com/msbhamoo/myark-admin-api/pkg/response"
)

type importService interface {
	Preview(ctx context.Context, entity, fileName string, content []byte, actor service.Actor) (*dto.PreviewResponse, error)
	Commit(ctx context.Context, entity string, req dto.CommitRequest, actor service.Actor) (*dto.CommitResponse, error)
	Template(ctx context.Context, entity string) ([]byte, string, error)
}

// ImportHandler manages CSV bulk import HTTP endpoints.
type ImportHandler struct {
	service importService
}

// NewImportHandler constructs the handler.
func NewImportHandler(service importService) *ImportHandler {
	return &ImportHandler{service: service}
}

// Preview godoc
// @Summary Preview a CSV import
// @Description Parse and validate an uploaded CSV without writing anything
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param entity path string true "Entity type" Enums(opportunities, schools, organizers)
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/imports/{entity}/preview [post]
func (h *ImportHandler) Preview(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "upload file is required (CSV)"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to open uploaded file"))
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
		return
	}

	res, err := h.service.Preview(c.Request.Context(), c.Param("entity"), fileHeader.Filename, content, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Commit godoc
// @Summary Commit a reviewed import batch
// @Description Re-validate the submitted rows and persist the ones that pass
// @Tags Imports
// @Accept json
// @Produce json
// @Param entity path string true "Entity type" Enums(opportunities, schools, organizers)
// @Param payload body dto.CommitRequest true "Rows to persist"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/imports/{entity}/commit [post]
func (h *ImportHandler) Commit(c *gin.Context) {
	var req dto.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "rows array is required"))
		return
	}

	res, err := h.service.Commit(c.Request.Context(), c.Param("entity"), req, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Template godoc
// @Summary Download a CSV import template
// @Description Return the expected header row plus a sample data row
// @Tags Imports
// @Produce text/csv
// @Param entity path string true "Entity type" Enums(opportunities, schools, organizers)
// @Success 200 {string} string "CSV content"
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/imports/{entity}/template [get]
func (h *ImportHandler) Template(c *gin.Context) {
	content, fileName, err := h.service.Template(c.Request.Context(), c.Param("entity"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "text/csv", content)
}

func actorFrom(c *gin.Context) service.Actor {
	actor := service.Actor{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if claims, ok := c.Get(middleware.ContextUserKey); ok {
		actor.UserID = claims.(*models.JWTClaims).UserID
	}
	return actor
}
