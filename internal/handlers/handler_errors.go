package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mptrsn/corpledger/internal/apperrors"
)

// respondServiceError maps service errors onto HTTP responses. Accounting errors
// return every violation so the caller can fix all of them in one round trip.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var acctErr *apperrors.AccountingError
	switch {
	case errors.As(err, &acctErr):
		logger.Warn("Accounting rule violation", slog.String("action", action), slog.String("error", acctErr.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      acctErr.Message,
			"kind":       acctErr.Kind,
			"violations": acctErr.Violations,
		})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting state", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Service call failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
