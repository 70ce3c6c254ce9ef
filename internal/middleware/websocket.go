package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to websocket endpoints are real upgrade
// attempts for a game, made by an authenticated user (see RequireAuth).
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		if c.Params("gameId") == "" {
			return fiber.NewError(fiber.StatusBadRequest, "game ID is required")
		}
		if Username(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		// Locals survive the upgrade; the websocket handler reads the user from them.
		return c.Next()
	}
}
