package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps an uploaded document at 25 MiB.
const maxUploadBytes = 25 << 20

// signedURLTTL is how long a generated download link stays valid.
const signedURLTTL = 15 * time.Minute

// fileHandler handles obligation document uploads and downloads.
type fileHandler struct {
	fileService portssvc.FileSvcFacade
}

// newFileHandler creates a new fileHandler.
func newFileHandler(fs portssvc.FileSvcFacade) *fileHandler {
	return &fileHandler{fileService: fs}
}

// registerFileRoutes registers routes related to obligation documents.
func registerFileRoutes(rg *gin.RouterGroup, fileService portssvc.FileSvcFacade) {
	h := newFileHandler(fileService)

	rg.POST("/obligations/:id/files", h.uploadFile)

	files := rg.Group("/files")
	{
		files.GET("/:fileId/url", h.downloadURL)
		files.DELETE("/:fileId", h.deleteFile)
	}
}

// uploadFile godoc
// @Summary Upload a document for an obligation
// @Description Stores the file in the object store (retried on transient failures) and records its metadata
// @Tags files
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path string true "Obligation ID"
// @Param   file formData file true "Document"
// @Success 201 {object} domain.ObligationFile
// @Failure 400 {object} map[string]string "Missing or oversized file"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to store document"
// @Security BearerAuth
// @Router /obligations/{id}/files [post]
func (h *fileHandler) uploadFile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("id")

	uploaderUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the upload size limit"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the upload size limit"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	file, err := h.fileService.UploadFile(c.Request.Context(), obligationID, fileHeader.Filename, contentType, data, uploaderUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to store document")
		return
	}

	logger.Info("Document uploaded", slog.String("file_id", file.FileID), slog.String("obligation_id", obligationID))
	c.JSON(http.StatusCreated, file)
}

// downloadURL godoc
// @Summary Get a signed download URL for a document
// @Tags files
// @Produce  json
// @Param   fileId path string true "File ID"
// @Param   download query bool false "Force attachment disposition"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "File not found"
// @Failure 500 {object} map[string]string "Failed to sign URL"
// @Security BearerAuth
// @Router /files/{fileId}/url [get]
func (h *fileHandler) downloadURL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fileID := c.Param("fileId")
	forceDownload := c.Query("download") == "true"

	url, err := h.fileService.SignedDownloadURL(c.Request.Context(), fileID, signedURLTTL, forceDownload)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to sign URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// deleteFile godoc
// @Summary Delete a document
// @Description Removes the metadata row and the stored object
// @Tags files
// @Produce  json
// @Param   fileId path string true "File ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "File not found"
// @Failure 500 {object} map[string]string "Failed to delete document"
// @Security BearerAuth
// @Router /files/{fileId} [delete]
func (h *fileHandler) deleteFile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fileID := c.Param("fileId")

	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), fileID, actorUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete document")
		return
	}

	logger.Info("Document deleted", slog.String("file_id", fileID))
	c.Status(http.StatusNoContent)
}
