// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController reports liveness of the API and its database connection.
type HealthController struct {
	checkDB func() bool
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(checkDB func() bool) *HealthController {
	return &HealthController{
		checkDB: checkDB,
	}
}

// Check handles GET /health.
func (h *HealthController) Check(c *gin.Context) {
	database := "disconnected"
	if h.checkDB != nil && h.checkDB() {
		database = "connected"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Database:  database,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
