package handlers

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"tirupurhomes/internal/config"
	applog "tirupurhomes/internal/log"
)

// NewApp builds the Fiber application: middleware stack, media routes, the
// public API, the admin API and the share page.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.AddFunc("inr", formatINR)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        engine,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: os.Stdout}))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(string(c.Request().URI().Path()), "/media/")
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.global.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": "rate limit exceeded, retry soon"})
			},
		}))
	}

	// ---------- Media ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	d.MediaHandler.Dir = mediaDir
	app.Get("/media/gridfs/:ref", d.MediaHandler.GridFS)
	app.Get("/media/*", d.MediaHandler.Local)

	// ---------- Service ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to " + cfg.AppName, "api": cfg.APIPrefix})
	})
	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "healthy"}) })
	app.Get("/p/:slug", d.ShareHandler.Page)

	// ---------- Public API ----------
	api := app.Group(cfg.APIPrefix)
	api.Get("/properties", d.ListingHandler.List)
	api.Get("/properties/slug/:slug", d.ListingHandler.BySlug)
	api.Get("/properties/:id", d.ListingHandler.Get)
	api.Post("/inquiries", d.InquiryHandler.Create)

	loginLimit := cfg.LoginRateLimit
	if loginLimit <= 0 {
		loginLimit = 5
	}
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        loginLimit,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	api.Get("/auth/me", RequireUser(d.Auth), d.AuthHandler.Me)

	// ---------- Admin API ----------
	admin := RequireAdmin(d.Auth)
	api.Post("/properties", admin, d.ListingHandler.Create)
	api.Put("/properties/:id", admin, d.ListingHandler.Update)
	api.Patch("/properties/:id", admin, d.ListingHandler.Update)
	api.Delete("/properties/:id", admin, d.ListingHandler.Delete)
	api.Delete("/properties/:id/images/:imageID", admin, d.ImageHandler.Delete)
	api.Post("/upload/property/:id/image", admin, d.ImageHandler.Upload)

	adm := api.Group("/admin", admin)
	adm.Get("/inquiries", d.InquiryHandler.List)
	adm.Patch("/inquiries/:id/read", d.InquiryHandler.MarkRead)
	adm.Post("/users", d.AdminHandler.CreateUser)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "not found"})
	})
	return app
}

func corsConfig(origins []string) cors.Config {
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	cfg := cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}
	if wildcard {
		cfg.AllowOrigins = "*"
		return cfg
	}
	cfg.AllowOrigins = strings.Join(origins, ",")
	cfg.AllowCredentials = true
	return cfg
}
