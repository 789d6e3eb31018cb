// middleware/user_context.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the admin identity and roles the
// Gateway forwards on every authenticated request. The back-office has
// no sessions of its own — identity always arrives in headers.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)
		return c.Next()
	}
}

// RequireRole refuses requests whose forwarded role list lacks the
// given role. Applied after UserContextMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role for this operation",
		})
	}
}
