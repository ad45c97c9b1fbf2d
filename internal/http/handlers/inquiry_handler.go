package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/domain"
	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/services"
)

type InquiryHandler struct {
	Inquiries *services.InquiryService
}

// POST /inquiries
func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	var in domain.NewInquiry
	if err := parseBody(c, &in); err != nil {
		return err
	}
	q, err := h.Inquiries.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	fields := map[string]any{"inquiry_id": q.ID}
	if q.ListingID != nil {
		fields["listing_id"] = *q.ListingID
	}
	applog.Info(c, "inquiry.create", fields)
	return c.Status(fiber.StatusCreated).JSON(q)
}

// GET /admin/inquiries?skip=&limit=&unread=true
func (h *InquiryHandler) List(c *fiber.Ctx) error {
	var ve domain.ValidationError
	p, err := pageQuery(c, &ve)
	if err != nil {
		return err
	}
	if err := ve.Err(); err != nil {
		return err
	}
	unread := false
	if s := c.Query("unread"); s != "" {
		if unread, err = strconv.ParseBool(s); err != nil {
			return badRequest("unread must be true or false")
		}
	}
	out, err := h.Inquiries.List(c.UserContext(), principal(c), unread, p)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PATCH /admin/inquiries/:id/read
func (h *InquiryHandler) MarkRead(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	q, err := h.Inquiries.MarkRead(c.UserContext(), principal(c), id)
	if err != nil {
		return err
	}
	applog.Audit(c, "inquiry.read", map[string]any{"inquiry_id": id})
	return c.JSON(q)
}
