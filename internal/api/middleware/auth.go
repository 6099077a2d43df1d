// Package middleware provides HTTP middleware for the API server
package middleware

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/slidesmith/slidesmith/internal/auth"
	"github.com/slidesmith/slidesmith/internal/types"
)

// IdentityKey is the fiber locals key holding the resolved caller identity
const IdentityKey = "identity"

// Auth returns a middleware that resolves the caller identity from the
// Authorization header. Requests without a resolvable identity are rejected
// before any handler runs.
func Auth(manager *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := manager.Resolve(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrUnauthorized("missing or invalid bearer token"))
		}

		c.Locals(IdentityKey, identity)
		return c.Next()
	}
}

// CallerID returns the resolved caller's subject, empty when unauthenticated
func CallerID(c *fiber.Ctx) string {
	identity, ok := c.Locals(IdentityKey).(*auth.Identity)
	if !ok {
		return ""
	}
	return identity.Subject
}
