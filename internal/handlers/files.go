package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"hobbyhub-client/internal/database"
	"hobbyhub-client/internal/middleware"
	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

type FilesHandler struct {
	store database.Store
	log   *logrus.Logger
}

func NewFilesHandler(store database.Store, log *logrus.Logger) *FilesHandler {
	return &FilesHandler{store: store, log: log}
}

// AddFile serves POST /projects/:id/files. The bytes live elsewhere; only
// the metadata and URL are recorded.
func (h *FilesHandler) AddFile(c *gin.Context) {
	p, ok := loadOwnedProject(c, h.store, h.log, "add files")
	if !ok {
		return
	}

	var req models.AddFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateAddFile(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	file := &models.ProjectFile{
		ID:          uuid.NewString(),
		ProjectID:   p.ID,
		Filename:    req.Filename,
		FileURL:     req.FileURL,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
		Description: req.Description,
		UploadedBy:  middleware.UserID(c),
		UploadedAt:  time.Now().UTC(),
	}
	if err := h.store.AddFile(c.Request.Context(), file); err != nil {
		storeFailed(c, h.log, err, "Project not found", "add file")
		return
	}
	c.JSON(http.StatusCreated, models.Envelope{Success: true, File: file, Message: "File added successfully"})
}

func (h *FilesHandler) DeleteFile(c *gin.Context) {
	p, ok := loadOwnedProject(c, h.store, h.log, "delete files")
	if !ok {
		return
	}
	fileID, ok := idParam(c, "fileId", "file")
	if !ok {
		return
	}
	if err := h.store.DeleteFile(c.Request.Context(), p.ID, fileID); err != nil {
		storeFailed(c, h.log, err, "File not found", "delete file")
		return
	}
	c.JSON(http.StatusOK, models.Envelope{Success: true, Message: "File deleted successfully"})
}
