package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/jobboardhq/jobboard-backend/internal/models"
)

func roleGateApp(guard fiber.Handler, user *models.User) *fiber.App {
	app := fiber.New()
	app.Get("/gated", func(c *fiber.Ctx) error {
		if user != nil {
			SetCurrentUser(c, user)
		}
		return c.Next()
	}, guard, func(c *fiber.Ctx) error {
		return c.SendString("through")
	})
	return app
}

func gateStatus(t *testing.T, guard fiber.Handler, user *models.User) int {
	t.Helper()

	app := roleGateApp(guard, user)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/gated", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestAdminRequired(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		want int
	}{
		{"admin", &models.User{Role: models.RoleAdmin}, http.StatusOK},
		{"provider", &models.User{Role: models.RoleJobProvider}, http.StatusForbidden},
		{"seeker", &models.User{Role: models.RoleJobSeeker}, http.StatusForbidden},
		{"no user", nil, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		if got := gateStatus(t, AdminRequired(), tc.user); got != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestProviderRequired(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		want int
	}{
		{"provider", &models.User{Role: models.RoleJobProvider}, http.StatusOK},
		{"admin", &models.User{Role: models.RoleAdmin}, http.StatusOK},
		{"seeker", &models.User{Role: models.RoleJobSeeker}, http.StatusForbidden},
		{"no user", nil, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		if got := gateStatus(t, ProviderRequired(), tc.user); got != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, got, tc.want)
		}
	}
}
