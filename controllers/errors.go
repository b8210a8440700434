package controllers

import (
	"Squares/services/squares"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusFor maps a business rule rejection onto its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, squares.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, squares.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, squares.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, squares.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, squares.ErrRandomness):
		return http.StatusServiceUnavailable
	case errors.Is(err, squares.ErrInvalidState),
		errors.Is(err, squares.ErrAlreadyTaken),
		errors.Is(err, squares.ErrAlreadyScored),
		errors.Is(err, squares.ErrLimitExceeded),
		errors.Is(err, squares.ErrNothingToLeave):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError answers {"error", "code"} for rejections. Anything else is
// attached to the context for the error handler to log and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	kind := squares.Kind(err)
	if kind == "" {
		c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error(), "code": kind})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "code": "invalid_input"})
}
