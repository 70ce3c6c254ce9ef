package middleware

import (
	"github.com/benbeisheim/chess-server/internal/model"
	"github.com/gofiber/fiber/v2"
)

const (
	LocalAuthToken = "authToken"
	LocalUsername  = "username"
)

type Authenticator interface {
	Authenticate(authToken string) (model.AuthData, error)
}

// RequireAuth resolves the caller's session before the handler runs. The token
// comes from the Authorization header, or from the auth query parameter for
// websocket upgrades, which cannot carry custom headers from a browser.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check header first
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			token = c.Query("auth")
		}

		session, err := auth.Authenticate(token)
		if err != nil {
			return err
		}

		// Store in context for this request
		c.Locals(LocalAuthToken, session.AuthToken)
		c.Locals(LocalUsername, session.Username)
		return c.Next()
	}
}

// AuthToken returns the raw token of the request; handlers behind RequireAuth
// get the verified one.
func AuthToken(c *fiber.Ctx) string {
	if token, ok := c.Locals(LocalAuthToken).(string); ok {
		return token
	}
	return c.Get(fiber.HeaderAuthorization)
}

// Username returns the user resolved by RequireAuth, or "".
func Username(c *fiber.Ctx) string {
	username, _ := c.Locals(LocalUsername).(string)
	return username
}
