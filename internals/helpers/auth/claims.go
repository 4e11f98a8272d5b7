package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserID membaca user_id yang sudah ditaruh middleware AuthJWT di locals.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("user_id").(string)
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing user context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user id in token")
	}
	return id, nil
}

func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

// EnsureRole memastikan role pada token termasuk salah satu dari allowed.
func EnsureRole(c *fiber.Ctx, message string, allowed []string) error {
	role := GetRole(c)
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return fiber.NewError(fiber.StatusForbidden, message)
}
