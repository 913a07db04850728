package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"hobbyhub-client/internal/database"
	"hobbyhub-client/internal/middleware"
	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

type UpdatesHandler struct {
	store database.Store
	log   *logrus.Logger
}

func NewUpdatesHandler(store database.Store, log *logrus.Logger) *UpdatesHandler {
	return &UpdatesHandler{store: store, log: log}
}

// AddUpdate serves POST /projects/:id/updates. There is intentionally no
// route for deleting an update.
func (h *UpdatesHandler) AddUpdate(c *gin.Context) {
	p, ok := loadOwnedProject(c, h.store, h.log, "post updates")
	if !ok {
		return
	}

	var req models.AddUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.ValidateAddUpdate(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	update := &models.ProjectUpdate{
		ID:                 uuid.NewString(),
		ProjectID:          p.ID,
		Title:              req.Title,
		Content:            req.Content,
		ProgressPercentage: req.ProgressPercentage,
		HoursLogged:        req.HoursLogged,
		AuthorID:           middleware.UserID(c),
		CreatedAt:          time.Now().UTC(),
		Attachments:        req.Attachments,
	}
	if err := h.store.AddUpdate(c.Request.Context(), update); err != nil {
		storeFailed(c, h.log, err, "Project not found", "add update")
		return
	}
	c.JSON(http.StatusCreated, models.Envelope{Success: true, Update: update, Message: "Update added successfully"})
}
