package v1

import (
	"errors"
	"net/http"

	"socialbook/service"

	"github.com/gin-gonic/gin"
)

// renderError maps the service error taxonomy onto HTTP responses. The
// extra entries are merged into the body so handlers can echo submitted
// values for re-display.
func renderError(c *gin.Context, err error, extra gin.H) {
	var status int
	body := gin.H{"error": err.Error()}

	var validationErr *service.ValidationError
	var duplicateErr *service.DuplicateFieldError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		body["fields"] = validationErr.Fields
	case errors.As(err, &duplicateErr):
		status = http.StatusConflict
		body["field"] = duplicateErr.Field
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrFriendNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateFriend),
		errors.Is(err, service.ErrGalleryFull):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSelfFriend),
		errors.Is(err, service.ErrInvalidIndex),
		errors.Is(err, service.ErrNotAnImage):
		status = http.StatusBadRequest
	default:
		// Unclassified storage/processing failure: fatal for this
		// request, nothing retried, no detail leaked.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
