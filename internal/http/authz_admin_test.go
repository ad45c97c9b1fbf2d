package handlers_test

import (
	"net/http"
	"testing"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newEnv(t)
	env.createListing(t, map[string]any{"title": "Guarded house", "price": 100000, "property_type": "SELL", "area": 800})

	routes := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/v1/properties", map[string]any{"title": "Another", "price": 1, "property_type": "BUY", "area": 1}},
		{http.MethodPatch, "/api/v1/properties/1", map[string]any{"price": 1}},
		{http.MethodPut, "/api/v1/properties/1", map[string]any{"price": 1}},
		{http.MethodDelete, "/api/v1/properties/1", nil},
		{http.MethodDelete, "/api/v1/properties/1/images/1", nil},
		{http.MethodGet, "/api/v1/admin/inquiries", nil},
		{http.MethodPatch, "/api/v1/admin/inquiries/1/read", nil},
		{http.MethodPost, "/api/v1/admin/users", map[string]any{"email": "x@homes.test", "name": "Xavier", "password": testPassword}},
	}
	for _, r := range routes {
		if status, body := env.do(t, r.method, r.path, r.body, ""); status != http.StatusUnauthorized {
			t.Fatalf("anonymous %s %s: want 401 got %d %s", r.method, r.path, status, body)
		}
		if status, body := env.do(t, r.method, r.path, r.body, env.agentToken); status != http.StatusForbidden {
			t.Fatalf("agent %s %s: want 403 got %d %s", r.method, r.path, status, body)
		}
	}

	status, body := env.do(t, http.MethodGet, "/api/v1/properties/1", nil, "")
	if status != http.StatusOK || decode[listingJSON](t, body).Price != 100000 {
		t.Fatalf("rejected calls must not change data: %d %s", status, body)
	}
}

func TestAdminCreatesUsers(t *testing.T) {
	env := newEnv(t)
	in := map[string]any{"email": "New.Agent@homes.test", "name": "New Agent", "password": testPassword, "role": "AGENT"}

	status, body := env.do(t, http.MethodPost, "/api/v1/admin/users", in, env.adminToken)
	if status != http.StatusCreated {
		t.Fatalf("create user: %d %s", status, body)
	}
	u := decode[struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}](t, body)
	if u.Email != "new.agent@homes.test" || u.Role != "AGENT" {
		t.Fatalf("created user: %s", body)
	}

	if status, _ := env.do(t, http.MethodPost, "/api/v1/admin/users", in, env.adminToken); status != http.StatusConflict {
		t.Fatalf("duplicate email: want 409 got %d", status)
	}
	weak := map[string]any{"email": "weak@homes.test", "name": "Weak", "password": "password"}
	if status, _ := env.do(t, http.MethodPost, "/api/v1/admin/users", weak, env.adminToken); status != http.StatusUnprocessableEntity {
		t.Fatalf("weak password: want 422 got %d", status)
	}

	status, _ = env.do(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "new.agent@homes.test", "password": testPassword}, "")
	if status != http.StatusOK {
		t.Fatalf("new account cannot log in: %d", status)
	}
}
