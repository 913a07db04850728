package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"hobbyhub-client/internal/models"
)

// HealthHandler serves GET /health without authentication.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
