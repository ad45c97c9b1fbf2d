package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/domain"
	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/services"
	"tirupurhomes/internal/validate"
)

type ListingHandler struct {
	Listings *services.ListingService
}

// GET /properties
func (h *ListingHandler) List(c *fiber.Ctx) error {
	f, p, err := listingQuery(c)
	if err != nil {
		return err
	}
	out, err := h.Listings.List(c.UserContext(), f, p)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GET /properties/:id
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.Listings.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(d)
}

// GET /properties/slug/:slug
func (h *ListingHandler) BySlug(c *fiber.Ctx) error {
	s, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return domain.ErrNotFound
	}
	d, err := h.Listings.GetBySlug(c.UserContext(), s)
	if err != nil {
		return err
	}
	return c.JSON(d)
}

// POST /properties
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var in domain.NewListing
	if err := parseBody(c, &in); err != nil {
		return err
	}
	d, err := h.Listings.Create(c.UserContext(), principal(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "listing.create", map[string]any{"listing_id": d.ID, "slug": d.Slug})
	return c.Status(fiber.StatusCreated).JSON(d)
}

// PUT|PATCH /properties/:id
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch domain.ListingPatch
	if err := c.App().Config().JSONDecoder(c.Body(), &patch); err != nil {
		return bodyError(err)
	}
	d, err := h.Listings.Update(c.UserContext(), principal(c), id, patch)
	if err != nil {
		return err
	}
	applog.Audit(c, "listing.update", map[string]any{"listing_id": id})
	return c.JSON(d)
}

// DELETE /properties/:id
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Listings.Delete(c.UserContext(), principal(c), id); err != nil {
		return err
	}
	applog.Audit(c, "listing.delete", map[string]any{"listing_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// listingQuery reads the search criteria and page from the query string.
// Malformed numbers are a 400; out-of-range values are validation errors.
func listingQuery(c *fiber.Ctx) (domain.ListingFilter, domain.Page, error) {
	var (
		f  domain.ListingFilter
		p  domain.Page
		ve domain.ValidationError
	)
	var err error
	if p, err = pageQuery(c, &ve); err != nil {
		return f, p, err
	}

	if s := strings.TrimSpace(c.Query("property_type")); s != "" {
		if t, err := domain.ParsePropertyType(s); err != nil {
			ve.Add("property_type", "must be one of BUY, SELL, RENT")
		} else {
			f.Type = &t
		}
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		if st, err := domain.ParseListingStatus(s); err != nil {
			ve.Add("status", "must be one of AVAILABLE, SOLD, RENTED, PENDING")
		} else {
			f.Status = &st
		}
	}
	for _, k := range []string{"min_price", "max_price"} {
		s := strings.TrimSpace(c.Query(k))
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return f, p, badRequest(k + " must be a number")
		}
		if v < 0 {
			ve.Add(k, "must not be negative")
			continue
		}
		if k == "min_price" {
			f.MinPrice = &v
		} else {
			f.MaxPrice = &v
		}
	}
	if s := strings.TrimSpace(c.Query("min_bedrooms")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return f, p, badRequest("min_bedrooms must be an integer")
		}
		if n < 1 {
			ve.Add("min_bedrooms", "must be at least 1")
		} else {
			f.MinBedrooms = &n
		}
	}
	if s := strings.TrimSpace(c.Query("city")); s != "" {
		f.City = &s
	}
	if s, ok := validate.Q(c.Query("search")); ok {
		f.Search = &s
	}
	if s := strings.TrimSpace(c.Query("is_featured")); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return f, p, badRequest("is_featured must be true or false")
		}
		f.Featured = &b
	}
	if err := ve.Err(); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"fields": ve.Fields})
		return f, p, err
	}
	return f, p, nil
}

// pageQuery reads skip and limit. A supplied limit below 1 or a negative
// skip is recorded in ve; an absent limit is left to the service default.
func pageQuery(c *fiber.Ctx, ve *domain.ValidationError) (domain.Page, error) {
	var p domain.Page
	skip, _, err := queryInt(c, "skip")
	if err != nil {
		return p, err
	}
	limit, hasLimit, err := queryInt(c, "limit")
	if err != nil {
		return p, err
	}
	if skip < 0 {
		ve.Add("skip", "must not be negative")
	}
	if hasLimit && limit < 1 {
		ve.Add("limit", "must be at least 1")
	}
	p.Skip, p.Limit = skip, limit
	return p, nil
}

func queryInt(c *fiber.Ctx, key string) (int, bool, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, badRequest(key + " must be an integer")
	}
	return n, true, nil
}

func pathID(c *fiber.Ctx, key string) (int64, error) {
	id, ok := validate.ID(c.Params(key))
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// parseBody decodes JSON or form bodies. Enum decoding failures keep their
// field errors; anything else is a malformed body.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return badRequest("malformed request body")
}
