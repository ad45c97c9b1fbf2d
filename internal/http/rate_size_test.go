package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"tirupurhomes/internal/config"
)

func TestGlobalRateLimit(t *testing.T) {
	env := newEnv(t, func(c *config.Config) { c.RateLimit = 3 })
	for i := 0; i < 4; i++ {
		status, _ := env.do(t, http.MethodGet, "/api/v1/properties", nil, "")
		if i < 3 && status == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 3 && status != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", status)
		}
	}
	if status, _ := env.do(t, http.MethodGet, "/health", nil, ""); status != http.StatusTooManyRequests {
		t.Fatalf("limit is per client across routes, got %d", status)
	}
}

func TestBodySizeLimit(t *testing.T) {
	env := newEnv(t, func(c *config.Config) { c.BodyLimit = 1 << 10 })

	oversize := `{"title":"` + strings.Repeat("A", 2<<10) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", bytes.NewBufferString(oversize))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+env.adminToken)
	resp, err := env.app.Test(req, -1)
	// Fiber returns an error instead of a response when body too large; treat that as pass
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(body))
	}
}

func TestSecurityHeadersAndCORS(t *testing.T) {
	env := newEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/properties", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "http://localhost:3000" {
		t.Fatalf("allowed origin not echoed: %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/properties", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://evil.test")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)
	resp, err = env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get(fiber.HeaderXContentTypeOptions) != "nosniff" {
		t.Fatalf("helmet headers missing: %v", resp.Header)
	}
}
