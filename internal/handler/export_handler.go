package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/msbhamoo/myark-admin-api/internal/dto"
	"github.com/msbhamoo/myark-admin-api/internal/service"
	"github.com/msbhamoo/myark-admin-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, entity, format string, actor service.Actor) (*dto.ExportResult, error)
}

// ExportHandler serves entity collection downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Export an entity collection
// @Description Render the full collection as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Param entity path string true "Entity type" Enums(opportunities, schools, organizers)
// @Param format query string false "Output format" Enums(csv, pdf) default(csv)
// @Success 200 {string} string "File content"
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/exports/{entity} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	_ = c.ShouldBindQuery(&req)

	result, err := h.service.Export(c.Request.Context(), c.Param("entity"), req.Format, actorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
