package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsync/skillsync-api/pkg/apperr"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin
// context so the observability middleware can include the reason in the log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondServiceError maps service-layer sentinel errors to HTTP statuses.
// Internal errors never leak their cause to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, clientMessage(err), err)
	case errors.Is(err, apperr.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Invalid credentials", err)
	case errors.Is(err, apperr.ErrForbidden):
		respondError(c, http.StatusForbidden, clientMessage(err), err)
	case errors.Is(err, apperr.ErrNotFound):
		respondError(c, http.StatusNotFound, clientMessage(err), err)
	case errors.Is(err, apperr.ErrConflict):
		respondError(c, http.StatusConflict, clientMessage(err), err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// clientMessage strips the wrapped sentinel suffix from a client-facing error
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		apperr.ErrInvalidInput,
		apperr.ErrConflict,
		apperr.ErrForbidden,
	} {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	return msg
}
