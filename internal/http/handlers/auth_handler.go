package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/domain"
	"tirupurhomes/internal/log"
	"tirupurhomes/internal/services"
	"tirupurhomes/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// userView is the public shape of an account.
type userView struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone,omitempty"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

func viewUser(u *domain.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role, IsActive: u.Active, CreatedAt: u.CreatedAt}
}

// POST /auth/login (JSON or form: email, password)
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	email, ok := validate.Email(in.Email)
	if !ok || in.Password == "" {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return services.ErrBadCreds
	}
	tok, u, err := h.Auth.Login(c.UserContext(), email, in.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return err
	}
	c.Locals("user_id", u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(tok)
}

// GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, ok := c.Locals("user").(*domain.User)
	if !ok || u == nil {
		return services.ErrBadToken
	}
	return c.JSON(viewUser(u))
}
