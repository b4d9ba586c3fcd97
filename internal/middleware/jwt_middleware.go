package middleware

import (
	"log"
	"strings"

	"checkout/internal/models"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// TokenValidator turns a bearer token into the principal it identifies.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.Principal, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		principal, err := validator.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalID returns the authenticated caller's id, or "" when the request is anonymous.
func PrincipalID(c *fiber.Ctx) string {
	principal, ok := c.Locals(principalKey).(*models.Principal)
	if !ok || principal == nil {
		return ""
	}
	return principal.ID
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
