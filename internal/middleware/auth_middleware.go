package middleware

import (
	"strings"

	"github.com/framelight/studio-backend/internal/models"
	jwtPkg "github.com/framelight/studio-backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid authorization header format"))
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtPkg.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid token"))
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid user ID in token"))
		}

		role, ok := claims["role"].(string)
		if !ok {
			role = models.RoleCustomer
		}

		c.Locals("userID", uint(userIDFloat))
		c.Locals("userRole", role)

		return c.Next()
	}
}

// RequireRoles gates staff-only routes. Must run after AuthMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(string)
		if !ok || !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Insufficient permissions"))
		}
		return c.Next()
	}
}
