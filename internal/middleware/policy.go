package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

// CanAccess is the single ownership policy for every resource: admins may act
// on anything, everyone else only on resources addressed to themselves.
func CanAccess(user *domain.User, ownerID uuid.UUID) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin() || user.ID == ownerID
}

// RequireOwner returns Forbidden unless the caller passes CanAccess.
func RequireOwner(c *fiber.Ctx, ownerID uuid.UUID) error {
	user := GetCurrentUser(c)
	if user == nil {
		return Unauthorized("User not authenticated")
	}
	if !CanAccess(user, ownerID) {
		return Forbidden("You may only act on your own resources")
	}
	return nil
}

func RequireRole(requiredRole domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not found")
		}

		if user.Role != string(requiredRole) && !user.IsAdmin() {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}
