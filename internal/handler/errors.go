package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workorder/internal/apperr"
)

// writeError maps the error kind to an HTTP status. Internal errors are
// logged and answered with a generic message.
func writeError(c *gin.Context, err error) {
	var status int
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		status = http.StatusNotFound
	case apperr.ErrInvalidTransition, apperr.ErrInvalidArgument:
		status = http.StatusBadRequest
	case apperr.ErrForbidden:
		status = http.StatusForbidden
	case apperr.ErrConflict:
		status = http.StatusConflict
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
}
