package httpserver

import (
	"errors"
	"net/http"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto status codes: validation 400, missing
// 404, everything else 500.
func (h *handlers) writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.logger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
