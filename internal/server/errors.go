package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/checklist/internal/models"
)

// statusForKind maps an error kind to its HTTP status code
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation, models.KindCapacity:
		return http.StatusBadRequest
	case models.KindAuthentication:
		return http.StatusUnauthorized
	case models.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondMessage writes the {"message": ...} body used by every error
// and by the delete/logout confirmations
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// respondError writes err as a JSON error. Internal errors are logged with
// their cause and reported to the client as internalMsg.
func (s *Server) respondError(c *gin.Context, err error, internalMsg string) {
	if errors.Is(err, context.DeadlineExceeded) {
		s.requestLogger(c).Warn("request timed out", "error", err)
		respondMessage(c, http.StatusGatewayTimeout, "Request timed out")
		return
	}

	var appErr *models.Error
	if errors.As(err, &appErr) && appErr.Kind != models.KindInternal {
		respondMessage(c, statusForKind(appErr.Kind), appErr.Message)
		return
	}

	s.requestLogger(c).Error(internalMsg, "error", err)
	respondMessage(c, http.StatusInternalServerError, internalMsg)
}
