package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/storage"
)

type MediaHandler struct {
	Dir   string
	Store storage.ObjectStore
}

// GET /media/* serves the local media directory. Traversal attempts, raw or
// encoded, are answered with 404.
func (h *MediaHandler) Local(c *fiber.Ctx) error {
	path := c.Params("*")
	rawLower := strings.ToLower(path)
	if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	clean := filepath.Clean(path)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	// SendFile caches open handles; the file must still exist on disk.
	full := filepath.Join(h.Dir, clean)
	if fi, err := os.Stat(full); err != nil || fi.IsDir() {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendFile(full, true)
}

// GET /media/gridfs/:ref streams an object kept in GridFS.
func (h *MediaHandler) GridFS(c *fiber.Ctx) error {
	op, ok := h.Store.(storage.Opener)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	rc, contentType, err := op.Open(c.UserContext(), c.Params("ref"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendStream(rc)
}
