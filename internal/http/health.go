package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	version string
}

func NewHealthController(version string) *HealthController {
	return &HealthController{version: version}
}

// Status reports service liveness.
// GET /health
func (controller *HealthController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": controller.version,
	})
}
