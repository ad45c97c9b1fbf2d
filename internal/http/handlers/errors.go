package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/domain"
	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/services"
)

const genericError = "Something went wrong. Please try again."

// ErrorHandler turns handler errors into JSON responses. Domain failure
// kinds map to their status codes; anything unexpected is logged and
// reported without detail.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": "validation failed",
			"errors": ve.Fields,
		})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		applog.Security(c, "access.denied", map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "forbidden"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"detail": "conflict, please retry"})
	case errors.Is(err, services.ErrBadCreds):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": services.ErrBadCreds.Error()})
	case errors.Is(err, services.ErrBadToken):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "could not validate credentials"})
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}

	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": genericError})
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}
