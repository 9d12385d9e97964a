package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the browser UI to call the API from any origin.
// The API carries no credentials or per-user state, so the permissive
// policy matches the single-user deployment model.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
