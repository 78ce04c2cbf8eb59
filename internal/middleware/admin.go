package middleware

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// SuperAdminChecker is satisfied by services.UserService.
type SuperAdminChecker interface {
	IsSuperAdmin(ctx context.Context, id uuid.UUID) (bool, error)
}

// RequireSuperAdmin must run after Auth.
func RequireSuperAdmin(users SuperAdminChecker) drift.HandlerFunc {
	return func(c *drift.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Unauthorized("not authenticated")
			return
		}

		isAdmin, err := users.IsSuperAdmin(c.Request.Context(), userID)
		if err != nil {
			slog.Error("failed to check global role", "user_id", userID, "error", err)
			c.InternalServerError("failed to check permissions")
			return
		}
		if !isAdmin {
			c.Forbidden("super admin required")
			return
		}

		c.Next()
	}
}
