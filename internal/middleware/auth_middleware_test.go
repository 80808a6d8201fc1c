package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/framelight/studio-backend/internal/models"
	jwtPkg "github.com/framelight/studio-backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("userID"),
			"role":    c.Locals("userRole"),
		})
	})
	app.Get("/staff", AuthMiddleware(), RequireRoles(models.RoleStaff, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := testApp()

	token, err := jwtPkg.GenerateToken("ana@example.com", 7, models.RoleCustomer)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Missing and malformed credentials.
	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := testApp()

	customerToken, err := jwtPkg.GenerateToken("ana@example.com", 7, models.RoleCustomer)
	require.NoError(t, err)
	staffToken, err := jwtPkg.GenerateToken("staff@example.com", 2, models.RoleStaff)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
