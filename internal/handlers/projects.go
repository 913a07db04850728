package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"hobbyhub-client/internal/database"
	"hobbyhub-client/internal/middleware"
	"hobbyhub-client/internal/models"
	"hobbyhub-client/internal/validation"
)

type ProjectsHandler struct {
	store database.Store
	log   *logrus.Logger
}

func NewProjectsHandler(store database.Store, log *logrus.Logger) *ProjectsHandler {
	return &ProjectsHandler{store: store, log: log}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, models.Envelope{Success: false, Error: msg})
}

// storeFailed answers a store error: ErrNotFound becomes 404 with notFound,
// anything else is logged and hidden behind a 500.
func storeFailed(c *gin.Context, log *logrus.Logger, err error, notFound, action string) {
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, notFound)
		return
	}
	log.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error("failed to " + action)
	fail(c, http.StatusInternalServerError, "failed to "+action)
}

func idParam(c *gin.Context, name, label string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+label+" id")
		return "", false
	}
	return id.String(), true
}

func visibleTo(p *models.Project, userID string) bool {
	return p.Visibility == models.VisibilityPublic || p.OwnerID == userID
}

// loadProject fetches the :id project. Projects the caller may not see are
// reported as missing.
func loadProject(c *gin.Context, store database.Store, log *logrus.Logger) (*models.Project, bool) {
	id, ok := idParam(c, "id", "project")
	if !ok {
		return nil, false
	}
	p, err := store.GetProject(c.Request.Context(), id)
	if err == nil && !visibleTo(p, middleware.UserID(c)) {
		err = database.ErrNotFound
	}
	if err != nil {
		storeFailed(c, log, err, "Project not found", "get project")
		return nil, false
	}
	return p, true
}

// loadOwnedProject is loadProject plus a check that the caller owns it.
func loadOwnedProject(c *gin.Context, store database.Store, log *logrus.Logger, action string) (*models.Project, bool) {
	p, ok := loadProject(c, store, log)
	if !ok {
		return nil, false
	}
	if p.OwnerID != middleware.UserID(c) {
		fail(c, http.StatusForbidden, "Only the project owner can "+action)
		return nil, false
	}
	return p, true
}

// ListProjects serves GET /projects.
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	opts := database.ListOptions{
		Page:       page,
		Limit:      limit,
		Search:     c.Query("search"),
		Tags:       c.QueryArray("tags"),
		Status:     c.Query("status"),
		Difficulty: c.Query("difficulty"),
		Visibility: c.Query("visibility"),
		ViewerID:   middleware.UserID(c),
	}
	opts.Normalize()

	projects, total, err := h.store.ListProjects(c.Request.Context(), opts)
	if err != nil {
		storeFailed(c, h.log, err, "", "list projects")
		return
	}

	if projects == nil {
		projects = []models.Project{}
	}
	c.JSON(http.StatusOK, models.ProjectListResponse{
		Success:    true,
		Projects:   projects,
		Pagination: database.NewPagination(opts, total),
	})
}

// GetProject serves GET /projects/:id with files and updates embedded.
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	p, ok := loadProject(c, h.store, h.log)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Success: true, Project: p})
}

func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	validation.NormalizeCreateProject(&req)
	if err := validation.ValidateCreateProject(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	p := &models.Project{
		ID:             uuid.NewString(),
		OwnerID:        middleware.UserID(c),
		Title:          req.Title,
		Description:    req.Description,
		Tags:           req.Tags,
		Visibility:     req.Visibility,
		Difficulty:     req.Difficulty,
		Status:         req.Status,
		EstimatedHours: req.EstimatedHours,
		ThumbnailURL:   req.ThumbnailURL,
		SquadID:        req.SquadID,
		Files:          []models.ProjectFile{},
		Updates:        []models.ProjectUpdate{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.Status == "" {
		p.Status = database.DefaultStatus
	}

	if err := h.store.CreateProject(c.Request.Context(), p); err != nil {
		storeFailed(c, h.log, err, "Project not found", "create project")
		return
	}

	h.log.WithFields(logrus.Fields{"project_id": p.ID, "owner_id": p.OwnerID}).Info("project created")
	c.JSON(http.StatusCreated, models.ProjectResponse{Success: true, Project: p, Message: "Project created successfully"})
}

// UpdateProject serves PUT /projects/:id. Only fields present in the body change.
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	p, ok := loadOwnedProject(c, h.store, h.log, "update it")
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	validation.NormalizeUpdateProject(&req)
	if err := validation.ValidateUpdateProject(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Visibility != nil && *req.Visibility == models.VisibilitySquadOnly && p.SquadID == nil {
		fail(c, http.StatusBadRequest, "squad_only visibility requires a squad")
		return
	}

	applyUpdate(p, &req)
	p.UpdatedAt = time.Now().UTC()
	if err := h.store.UpdateProject(c.Request.Context(), p); err != nil {
		storeFailed(c, h.log, err, "Project not found", "update project")
		return
	}

	updated, err := h.store.GetProject(c.Request.Context(), p.ID)
	if err != nil {
		storeFailed(c, h.log, err, "Project not found", "get project")
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Success: true, Project: updated, Message: "Project updated successfully"})
}

func applyUpdate(p *models.Project, req *models.UpdateProjectRequest) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.Visibility != nil {
		p.Visibility = *req.Visibility
	}
	if req.Difficulty != nil {
		p.Difficulty = *req.Difficulty
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.EstimatedHours != nil {
		p.EstimatedHours = req.EstimatedHours
	}
	if req.ThumbnailURL != nil {
		p.ThumbnailURL = req.ThumbnailURL
	}
}

func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	p, ok := loadOwnedProject(c, h.store, h.log, "delete it")
	if !ok {
		return
	}
	if err := h.store.DeleteProject(c.Request.Context(), p.ID); err != nil {
		storeFailed(c, h.log, err, "Project not found", "delete project")
		return
	}
	h.log.WithField("project_id", p.ID).Info("project deleted")
	c.JSON(http.StatusOK, models.Envelope{Success: true, Message: "Project deleted successfully"})
}

// LikeProject serves POST /projects/:id/like and toggles the caller's like.
func (h *ProjectsHandler) LikeProject(c *gin.Context) {
	p, ok := loadProject(c, h.store, h.log)
	if !ok {
		return
	}
	liked, err := h.store.ToggleLike(c.Request.Context(), p.ID, middleware.UserID(c))
	if err != nil {
		storeFailed(c, h.log, err, "Project not found", "like project")
		return
	}
	msg := "Project unliked"
	if liked {
		msg = "Project liked"
	}
	c.JSON(http.StatusOK, models.Envelope{Success: true, Message: msg, Liked: &liked})
}

// RepostProject serves POST /projects/:id/repost. Reposting twice counts once.
func (h *ProjectsHandler) RepostProject(c *gin.Context) {
	p, ok := loadProject(c, h.store, h.log)
	if !ok {
		return
	}
	count, err := h.store.Repost(c.Request.Context(), p.ID, middleware.UserID(c))
	if err != nil {
		storeFailed(c, h.log, err, "Project not found", "repost project")
		return
	}
	c.JSON(http.StatusOK, models.Envelope{Success: true, Message: "Project reposted", RepostCount: &count})
}
