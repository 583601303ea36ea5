package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kunmmi/whisper/internal/chat"
)

// writeError maps the error taxonomy onto HTTP statuses. Unclassified errors
// are logged and reported generically so internals never leak to callers.
func writeError(c *gin.Context, err error) {
	var e *chat.Error
	if errors.As(err, &e) {
		c.JSON(statusFor(e.Kind), gin.H{"error": e.Message})
		return
	}
	log.Printf("handler error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func statusFor(kind chat.Kind) int {
	switch kind {
	case chat.KindValidation:
		return http.StatusBadRequest
	case chat.KindAuthentication:
		return http.StatusUnauthorized
	case chat.KindAuthorization:
		return http.StatusForbidden
	case chat.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
