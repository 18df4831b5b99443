package auth

import (
	"github.com/gofiber/fiber/v2"

	"srivani_backend/internals/constants"
)

// IsAdmin gates admin-only route groups. Must run after AuthMiddleware.
func IsAdmin(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if role != constants.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin(feature))
		}
		return c.Next()
	}
}
