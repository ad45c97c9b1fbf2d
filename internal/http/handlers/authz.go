package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/domain"
	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/services"
)

// RequireUser resolves the bearer token to an active account and stores
// it in Locals ("user", "user_id", "principal").
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authenticate(c, auth); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin is RequireUser plus the ADMIN role.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authenticate(c, auth); err != nil {
			return err
		}
		if p := principal(c); !p.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"role": p.Role.String()})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "admin access required"})
		}
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, auth *services.AuthService) error {
	raw, ok := bearer(c.Get(fiber.HeaderAuthorization))
	if !ok {
		applog.Security(c, "auth.token.missing", nil)
		return services.ErrBadToken
	}
	p, u, err := auth.Authenticate(c.UserContext(), raw)
	if err != nil {
		applog.Security(c, "auth.token.rejected", nil)
		return err
	}
	c.Locals("user", u)
	c.Locals("user_id", p.UserID)
	c.Locals("principal", p)
	return nil
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// principal is the caller set by RequireUser; anonymous callers get the
// zero value, which no role check accepts.
func principal(c *fiber.Ctx) domain.Principal {
	p, _ := c.Locals("principal").(domain.Principal)
	return p
}
