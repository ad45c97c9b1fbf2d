package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/domain"
	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/services"
)

type ImageHandler struct {
	Listings *services.ListingService
	MaxBytes int64
}

// POST /upload/property/:id/image (multipart: file, caption, order)
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Invalid("file", "is required")
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		applog.Security(c, "upload.rejected", map[string]any{"content_type": contentType})
		return domain.Invalid("file", "must be an image")
	}
	if h.MaxBytes > 0 && fh.Size > h.MaxBytes {
		return fiber.ErrRequestEntityTooLarge
	}

	order := 0
	if s := strings.TrimSpace(c.FormValue("order")); s != "" {
		if order, err = strconv.Atoi(s); err != nil {
			return badRequest("order must be an integer")
		}
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	img, err := h.Listings.AttachImage(c.UserContext(), principal(c), id, services.ImageUpload{
		Name:        fh.Filename,
		ContentType: contentType,
		Data:        data,
		Caption:     c.FormValue("caption"),
		Order:       order,
	})
	if err != nil {
		return err
	}
	applog.Audit(c, "listing.image.add", map[string]any{"listing_id": id, "image_id": img.ID, "bytes": len(data)})
	return c.JSON(fiber.Map{
		"id":        img.ID,
		"url":       img.URL,
		"public_id": img.PublicID,
		"message":   "Image uploaded successfully",
	})
}

// DELETE /properties/:id/images/:imageID
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	imageID, err := pathID(c, "imageID")
	if err != nil {
		return err
	}
	if err := h.Listings.DeleteImage(c.UserContext(), principal(c), id, imageID); err != nil {
		return err
	}
	applog.Audit(c, "listing.image.delete", map[string]any{"listing_id": id, "image_id": imageID})
	return c.SendStatus(fiber.StatusNoContent)
}
