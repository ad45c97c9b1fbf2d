package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/domain"
	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/services"
)

type AdminHandler struct {
	Auth *services.AuthService
}

// POST /admin/users
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in domain.NewUser
	if err := parseBody(c, &in); err != nil {
		return err
	}
	u, err := h.Auth.CreateUser(c.UserContext(), principal(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.users.create", map[string]any{"new_user_id": u.ID, "role": u.Role.String()})
	return c.Status(fiber.StatusCreated).JSON(viewUser(u))
}
