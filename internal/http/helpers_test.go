package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"tirupurhomes/internal/config"
	"tirupurhomes/internal/domain"
	"tirupurhomes/internal/http/handlers"
	"tirupurhomes/internal/repos"
	"tirupurhomes/internal/storage"
)

const testPassword = "Passw0rd!"

type testEnv struct {
	app        *fiber.App
	db         *sqlx.DB
	deps       *handlers.Deps
	cfg        config.Config
	adminToken string
	agentToken string
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppName:        "Tirupur Homes API",
		APIPrefix:      "/api/v1",
		DBDriver:       repos.DriverSQLite,
		DBDSN:          ":memory:",
		JWTSecret:      "test-secret",
		TokenTTL:       30 * time.Minute,
		MediaDir:       t.TempDir(),
		PublicBaseURL:  "http://homes.test",
		AllowedOrigins: []string{"http://localhost:3000"},
		BodyLimit:      1 << 20,
		LoginRateLimit: 100,
		TemplatesDir:   "../../web/templates",
	}
}

func newEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	for _, m := range mutate {
		m(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := storage.NewLocal(cfg.MediaDir, cfg.PublicBaseURL+"/media")
	if err != nil {
		t.Fatalf("media dir: %v", err)
	}
	deps := handlers.NewDeps(db, cfg, store)
	env := &testEnv{app: handlers.NewApp(cfg, deps), db: db, deps: deps, cfg: cfg}

	ctx := context.Background()
	admin, err := deps.Auth.Register(ctx, domain.NewUser{Email: "admin@homes.test", Name: "Admin", Password: testPassword})
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	agent, err := deps.Auth.Register(ctx, domain.NewUser{Email: "agent@homes.test", Name: "Agent", Password: testPassword, Role: domain.RoleAgent})
	if err != nil {
		t.Fatalf("register agent: %v", err)
	}
	for _, x := range []struct {
		u   *domain.User
		dst *string
	}{{admin, &env.adminToken}, {agent, &env.agentToken}} {
		tok, err := deps.Auth.Issue(x.u)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		*x.dst = tok.AccessToken
	}
	return env
}

// do sends a request and returns the status and body. A non-nil body that
// is not already a reader is sent as JSON.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (int, []byte) {
	t.Helper()
	var r io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	case string:
		r = bytes.NewBufferString(b)
		contentType = fiber.MIMEApplicationJSON
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
		contentType = fiber.MIMEApplicationJSON
	}
	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %T: %v; body=%s", v, err, body)
	}
	return v
}

// listingJSON is the detail payload as a client reads it.
type listingJSON struct {
	ID           int64   `json:"id"`
	Slug         string  `json:"slug"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	PropertyType string  `json:"property_type"`
	Status       string  `json:"status"`
	City         string  `json:"city"`
	Bedrooms     int     `json:"bedrooms"`
	Address      string  `json:"address"`
	Thumbnail    string  `json:"thumbnail"`
	UpdatedAt    *string `json:"updated_at"`
	Images       []struct {
		ID    int64  `json:"id"`
		URL   string `json:"url"`
		Order int    `json:"order"`
	} `json:"images"`
}

func (e *testEnv) createListing(t *testing.T, body map[string]any) listingJSON {
	t.Helper()
	status, out := e.do(t, http.MethodPost, "/api/v1/properties", body, e.adminToken)
	if status != http.StatusCreated {
		t.Fatalf("create listing: status %d body=%s", status, out)
	}
	return decode[listingJSON](t, out)
}
