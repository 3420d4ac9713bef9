package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

// RequireAuthenticated ensures a principal was resolved for the request.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
