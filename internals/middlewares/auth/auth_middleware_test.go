package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniportal_backend/internals/constants"
)

func newGuardedApp(role string) *fiber.App {
	app := fiber.New()
	app.Get("/staff",
		func(c *fiber.Ctx) error {
			if role != "" {
				c.Locals("role", role)
			}
			return c.Next()
		},
		OnlyRolesSlice("staff only", constants.StaffAndAbove),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestOnlyRolesSlice(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"staff passes", "staff", fiber.StatusOK},
		{"applicant is forbidden", "applicant", fiber.StatusForbidden},
		{"missing role is forbidden", "", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newGuardedApp(tt.role).Test(httptest.NewRequest("GET", "/staff", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
