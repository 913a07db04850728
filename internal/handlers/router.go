package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"hobbyhub-client/internal/database"
	"hobbyhub-client/internal/middleware"
)

// NewRouter wires the project API under /api and the health check at /health.
func NewRouter(store database.Store, jwtSecret string, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	router.GET("/health", HealthHandler)

	projects := NewProjectsHandler(store, log)
	files := NewFilesHandler(store, log)
	updates := NewUpdatesHandler(store, log)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret))

	api.GET("/projects", projects.ListProjects)
	api.POST("/projects", projects.CreateProject)
	api.GET("/projects/:id", projects.GetProject)
	api.PUT("/projects/:id", projects.UpdateProject)
	api.DELETE("/projects/:id", projects.DeleteProject)
	api.POST("/projects/:id/like", projects.LikeProject)
	api.POST("/projects/:id/repost", projects.RepostProject)

	api.POST("/projects/:id/files", files.AddFile)
	api.DELETE("/projects/:id/files/:fileId", files.DeleteFile)

	api.POST("/projects/:id/updates", updates.AddUpdate)

	return router
}
