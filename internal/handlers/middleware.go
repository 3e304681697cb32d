package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/identity"
)

const (
	localUserID      = "user_id"
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "GET, POST, PUT, OPTIONS"
)

// CORS answers preflight requests with 200 and no body and stamps the
// permissive headers on every response.
func CORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)
		c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowMethods)

		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}

		return c.Next()
	}
}

// RequireAuth resolves the bearer token and stores the owner's id in the
// request locals.
func RequireAuth(verifier identity.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := identity.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return unauthorized(c, err)
		}

		who, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) || errors.Is(err, identity.ErrMissingToken) {
				return unauthorized(c, err)
			}
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Failed to verify token",
			})
		}

		c.Locals(localUserID, who.UserID)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, err error) error {
	message := "Invalid token"
	if errors.Is(err, identity.ErrMissingToken) {
		message = "No authorization header"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}

func currentUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	return id
}
