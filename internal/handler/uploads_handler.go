package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	appErrors "github.com/msbhamoo/myark-admin-api/pkg/errors"
	"github.com/msbhamoo/myark-admin-api/pkg/response"
	"github.com/msbhamoo/myark-admin-api/pkg/storage"
)

// UploadFilesHandler serves retained upload files through signed, expiring
// download links.
type UploadFilesHandler struct {
	uploads *storage.LocalStorage
	signer  *storage.SignedURLSigner
}

// NewUploadFilesHandler constructs the handler.
func NewUploadFilesHandler(uploads *storage.LocalStorage, signer *storage.SignedURLSigner) *UploadFilesHandler {
	return &UploadFilesHandler{uploads: uploads, signer: signer}
}

// Link godoc
// @Summary Generate a signed download link for a retained upload
// @Tags Imports
// @Produce json
// @Param name path string true "Retained file name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /retained-uploads/{name}/link [get]
func (h *UploadFilesHandler) Link(c *gin.Context) {
	name := filepath.Base(c.Param("name"))

	file, err := h.uploads.Open(name)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "retained upload not found"))
		return
	}
	file.Close()

	token, expiresAt, err := h.signer.Generate(name, name)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link"))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	}, nil)
}

// Remove godoc
// @Summary Delete a retained upload
// @Tags Imports
// @Produce json
// @Param name path string true "Retained file name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /retained-uploads/{name} [delete]
func (h *UploadFilesHandler) Remove(c *gin.Context) {
	name := filepath.Base(c.Param("name"))

	file, err := h.uploads.Open(name)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "retained upload not found"))
		return
	}
	file.Close()

	if err := h.uploads.Delete(name); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete retained upload"))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"deleted": name}, nil)
}

// Download godoc
// @Summary Download a retained upload by signed token
// @Tags Imports
// @Produce text/csv
// @Param token query string true "Signed download token"
// @Success 200 {string} string "CSV content"
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /retained-uploads/download [get]
func (h *UploadFilesHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	_, relPath, _, err := h.signer.Parse(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token"))
		return
	}

	file, err := h.uploads.Open(filepath.Base(relPath))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "retained upload not found"))
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(relPath))
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
