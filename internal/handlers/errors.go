package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleServiceError maps service-layer sentinel errors to HTTP responses.
// Conflict-class errors (duplicate, hold already resolved) come back as 409
// so clients can distinguish a replay from a bad request.
func handleServiceError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInsufficientFunds):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrWalletBlocked):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrAlreadyResolved), errors.Is(err, apperrors.ErrNoHeldFunds):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
