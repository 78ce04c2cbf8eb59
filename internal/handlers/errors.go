package handlers

import (
	"errors"
	"log/slog"

	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

// respondError maps a service error onto its HTTP status. Anything outside
// the known kinds is logged and reported as a 500 carrying fallback.
func respondError(c *drift.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrValidation):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrVersionConflict):
		conflict(c, "VERSION_CONFLICT", err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		conflict(c, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, services.ErrConflict):
		conflict(c, "CONFLICT", err.Error())
	default:
		slog.Error(fallback, "error", err, "path", c.Request.URL.Path)
		c.InternalServerError(fallback)
	}
}

func conflict(c *drift.Context, code, message string) {
	_ = c.JSON(409, map[string]any{
		"code":    code,
		"message": message,
	})
}
