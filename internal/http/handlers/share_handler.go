package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/domain"
	"tirupurhomes/internal/services"
	"tirupurhomes/internal/validate"
)

// ShareHandler serves the server-rendered listing page that link previews
// (OpenGraph) read.
type ShareHandler struct {
	Listings *services.ListingService
	AppName  string
	BaseURL  string
}

// GET /p/:slug
func (h *ShareHandler) Page(c *fiber.Ctx) error {
	s, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return h.notFound(c)
	}
	d, err := h.Listings.GetBySlug(c.UserContext(), s)
	if errors.Is(err, domain.ErrNotFound) {
		return h.notFound(c)
	}
	if err != nil {
		return err
	}
	image := ""
	if len(d.Images) > 0 {
		image = d.Images[0].URL
	}
	return render(c, "listing", fiber.Map{
		"AppName": h.AppName,
		"Listing": d,
		"Image":   image,
		"URL":     h.BaseURL + "/p/" + d.Slug,
	})
}

func (h *ShareHandler) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{
		"AppName": h.AppName,
		"Message": "This property is no longer listed",
	})
}
