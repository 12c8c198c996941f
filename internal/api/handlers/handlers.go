package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getUserID reads the server-verified caller identity set by the auth
// middleware. Client-supplied user IDs are never trusted.
func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
