package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends a JSON error response.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondNotFound sends a 404 with resource not found message.
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

// respondInternalError sends a 500 with message.
func respondInternalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, message)
}
