package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestCreateAndFetchListing(t *testing.T) {
	env := newEnv(t)

	l := env.createListing(t, map[string]any{
		"title": "Luxury 3 BHK Apartment", "price": 5500000, "property_type": "BUY",
		"area": 1450, "bedrooms": 3, "address": "12 Avinashi Rd",
	})
	if l.Slug != "luxury-3-bhk-apartment" || l.Status != "AVAILABLE" || l.City != "Tirupur" {
		t.Fatalf("unexpected listing: %+v", l)
	}
	if l.UpdatedAt != nil {
		t.Fatalf("updated_at should be null on create, got %v", *l.UpdatedAt)
	}

	dup := env.createListing(t, map[string]any{
		"title": "Luxury 3 BHK Apartment", "price": 5500000, "property_type": "BUY", "area": 1450,
	})
	if dup.Slug != "luxury-3-bhk-apartment-1" {
		t.Fatalf("want suffixed slug, got %q", dup.Slug)
	}

	status, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/properties/%d", l.ID), nil, "")
	if status != http.StatusOK {
		t.Fatalf("get: %d %s", status, body)
	}
	got := decode[listingJSON](t, body)
	if got.Address != "12 Avinashi Rd" || got.Bedrooms != 3 || got.Images == nil {
		t.Fatalf("detail mismatch: %+v", got)
	}
	if strings.Contains(string(body), "created_by") {
		t.Fatalf("detail leaks owner: %s", body)
	}

	status, body = env.do(t, http.MethodGet, "/api/v1/properties/slug/luxury-3-bhk-apartment-1", nil, "")
	if status != http.StatusOK || decode[listingJSON](t, body).ID != dup.ID {
		t.Fatalf("by slug: %d %s", status, body)
	}

	for _, path := range []string{"/api/v1/properties/999", "/api/v1/properties/abc", "/api/v1/properties/slug/missing"} {
		if status, _ := env.do(t, http.MethodGet, path, nil, ""); status != http.StatusNotFound {
			t.Fatalf("%s: want 404, got %d", path, status)
		}
	}
}

func TestCreateListingValidation(t *testing.T) {
	env := newEnv(t)

	cases := []struct {
		name  string
		body  any
		want  int
		field string
	}{
		{"zero price", map[string]any{"title": "Plot", "price": 0, "property_type": "SELL", "area": 10}, http.StatusUnprocessableEntity, "price"},
		{"bad enum", map[string]any{"title": "Plot", "price": 10, "property_type": "LEASE", "area": 10}, http.StatusUnprocessableEntity, "property_type"},
		{"zero bedrooms", map[string]any{"title": "Plot", "price": 10, "property_type": "SELL", "area": 10, "bedrooms": 0}, http.StatusUnprocessableEntity, "bedrooms"},
		{"short title", map[string]any{"title": "ab", "price": 10, "property_type": "SELL", "area": 10}, http.StatusUnprocessableEntity, "title"},
		{"malformed", `{"title":`, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/v1/properties", tc.body, env.adminToken)
			if status != tc.want {
				t.Fatalf("want %d, got %d body=%s", tc.want, status, body)
			}
			if tc.field != "" && !strings.Contains(string(body), `"field":"`+tc.field+`"`) {
				t.Fatalf("field %s not reported: %s", tc.field, body)
			}
		})
	}

	status, body := env.do(t, http.MethodGet, "/api/v1/properties", nil, "")
	if status != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("nothing should be stored: %d %s", status, body)
	}
}

func TestListFiltersOverHTTP(t *testing.T) {
	env := newEnv(t)
	buy := env.createListing(t, map[string]any{"title": "Independent house", "price": 5500000, "property_type": "BUY", "area": 1800, "city": "Tirupur"})
	rent := env.createListing(t, map[string]any{"title": "Flat for rent", "price": 15000, "property_type": "RENT", "area": 900, "city": "Tirupur"})
	sold := env.createListing(t, map[string]any{"title": "Old bungalow", "price": 9000000, "property_type": "BUY", "area": 2500, "status": "SOLD"})

	ids := func(path string) []int64 {
		t.Helper()
		status, body := env.do(t, http.MethodGet, path, nil, "")
		if status != http.StatusOK {
			t.Fatalf("%s: %d %s", path, status, body)
		}
		var out []int64
		for _, l := range decode[[]listingJSON](t, body) {
			out = append(out, l.ID)
		}
		return out
	}

	if got := ids("/api/v1/properties?min_price=1000000&property_type=BUY&city=tirupur"); len(got) != 1 || got[0] != buy.ID {
		t.Fatalf("scenario filter: %v", got)
	}
	if got := ids("/api/v1/properties"); len(got) != 2 || got[0] != rent.ID || got[1] != buy.ID {
		t.Fatalf("default list should be available newest first: %v", got)
	}
	if got := ids("/api/v1/properties?status=sold"); len(got) != 1 || got[0] != sold.ID {
		t.Fatalf("status override: %v", got)
	}
	if got := ids("/api/v1/properties?search=FLAT"); len(got) != 1 || got[0] != rent.ID {
		t.Fatalf("search: %v", got)
	}
	if got := ids("/api/v1/properties?skip=1&limit=1"); len(got) != 1 || got[0] != buy.ID {
		t.Fatalf("paging: %v", got)
	}
	if got := ids("/api/v1/properties?skip=50"); len(got) != 0 {
		t.Fatalf("skip past end: %v", got)
	}

	for path, want := range map[string]int{
		"/api/v1/properties?min_bedrooms=0":     http.StatusUnprocessableEntity,
		"/api/v1/properties?limit=0":            http.StatusUnprocessableEntity,
		"/api/v1/properties?limit=-5":           http.StatusUnprocessableEntity,
		"/api/v1/properties?skip=-1":            http.StatusUnprocessableEntity,
		"/api/v1/properties?limit=500":          http.StatusOK,
		"/api/v1/properties?property_type=PLOT": http.StatusUnprocessableEntity,
		"/api/v1/properties?limit=ten":          http.StatusBadRequest,
		"/api/v1/properties?is_featured=maybe":  http.StatusBadRequest,
		"/api/v1/properties?max_price=abc":      http.StatusBadRequest,
	} {
		if status, body := env.do(t, http.MethodGet, path, nil, ""); status != want {
			t.Fatalf("%s: want %d got %d %s", path, want, status, body)
		}
	}
}

func TestUpdateListingOverHTTP(t *testing.T) {
	env := newEnv(t)
	l := env.createListing(t, map[string]any{
		"title": "Villa with garden", "price": 5000000, "property_type": "BUY", "area": 2000, "bedrooms": 3,
		"address": "4 Park St", "offer_text": "Diwali offer", "is_special_offer": true,
	})
	path := fmt.Sprintf("/api/v1/properties/%d", l.ID)

	status, body := env.do(t, http.MethodPatch, path, map[string]any{"price": 6000000}, env.adminToken)
	if status != http.StatusOK {
		t.Fatalf("patch: %d %s", status, body)
	}
	got := decode[listingJSON](t, body)
	if got.Price != 6000000 || got.Bedrooms != 3 || got.Address != "4 Park St" || got.UpdatedAt == nil {
		t.Fatalf("patch result: %+v", got)
	}

	status, body = env.do(t, http.MethodPut, path, `{"address": null, "offer_text": null}`, env.adminToken)
	if status != http.StatusOK {
		t.Fatalf("put nulls: %d %s", status, body)
	}
	if got := decode[listingJSON](t, body); got.Address != "" || got.Price != 6000000 {
		t.Fatalf("null clears: %+v", got)
	}

	for _, bad := range []string{`{"price": null}`, `{"price": -1}`, `{"status": "GONE"}`, `{"bedrooms": 0}`} {
		if status, body := env.do(t, http.MethodPatch, path, bad, env.adminToken); status != http.StatusUnprocessableEntity {
			t.Fatalf("%s: want 422 got %d %s", bad, status, body)
		}
	}
	if status, _ := env.do(t, http.MethodPatch, path, `{"price":`, env.adminToken); status != http.StatusBadRequest {
		t.Fatalf("malformed patch: want 400 got %d", status)
	}
	if status, _ := env.do(t, http.MethodPatch, "/api/v1/properties/999", `{"price": 1}`, env.adminToken); status != http.StatusNotFound {
		t.Fatalf("missing listing: want 404 got %d", status)
	}

	_, body = env.do(t, http.MethodGet, path, nil, "")
	if got := decode[listingJSON](t, body); got.Price != 6000000 {
		t.Fatalf("rejected patches must not write: %+v", got)
	}
}

func TestDeleteListingOverHTTP(t *testing.T) {
	env := newEnv(t)
	l := env.createListing(t, map[string]any{"title": "Shop space", "price": 25000, "property_type": "RENT", "area": 300})
	path := fmt.Sprintf("/api/v1/properties/%d", l.ID)

	status, _ := env.do(t, http.MethodPost, "/api/v1/inquiries", map[string]any{
		"property_id": l.ID, "name": "Vel", "email": "vel@example.in", "phone": "9876543210", "message": "Can I visit tomorrow?",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("inquiry: %d", status)
	}

	if status, body := env.do(t, http.MethodDelete, path, nil, env.adminToken); status != http.StatusNoContent {
		t.Fatalf("delete: %d %s", status, body)
	}
	if status, _ := env.do(t, http.MethodGet, path, nil, ""); status != http.StatusNotFound {
		t.Fatalf("deleted listing still readable: %d", status)
	}
	var n int
	if err := env.db.Get(&n, `SELECT COUNT(*) FROM inquiries`); err != nil || n != 0 {
		t.Fatalf("inquiries not cascaded: n=%d err=%v", n, err)
	}
	if status, _ := env.do(t, http.MethodDelete, path, nil, env.adminToken); status != http.StatusNotFound {
		t.Fatalf("second delete: want 404 got %d", status)
	}
}
