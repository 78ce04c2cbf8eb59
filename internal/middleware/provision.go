package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dimitrije/gigmarket-api/internal/models"
	"github.com/dimitrije/gigmarket-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// UserProvisioner is satisfied by services.UserService.
type UserProvisioner interface {
	EnsureFromClaims(ctx context.Context, claims *services.Claims) (*models.User, error)
}

// EnsureUser makes sure the token subject has a users row before any
// handler runs. It must run after Auth.
func EnsureUser(users UserProvisioner) drift.HandlerFunc {
	return func(c *drift.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Unauthorized("not authenticated")
			return
		}

		_, err := users.EnsureFromClaims(c.Request.Context(), &services.Claims{UserID: userID, Email: GetUserEmail(c)})
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, services.ErrValidation):
			c.Unauthorized("token carries no email")
		case errors.Is(err, services.ErrConflict):
			_ = c.JSON(409, map[string]any{"code": "EMAIL_TAKEN", "message": err.Error()})
		default:
			slog.Error("failed to provision user", "user_id", userID, "error", err)
			c.InternalServerError("failed to load user")
		}
	}
}
