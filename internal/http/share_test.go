package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestSharePageRendersOpenGraph(t *testing.T) {
	env := newEnv(t)
	l := env.createListing(t, map[string]any{
		"title": "Luxury 3 BHK Apartment", "price": 5500000, "property_type": "BUY", "area": 1450, "bedrooms": 3,
	})

	status, body := env.do(t, http.MethodGet, "/p/"+l.Slug, nil, "")
	if status != http.StatusOK {
		t.Fatalf("share page: %d %s", status, body)
	}
	page := string(body)
	for _, want := range []string{
		`<meta property="og:title" content="Luxury 3 BHK Apartment">`,
		fmt.Sprintf(`<meta property="og:url" content="http://homes.test/p/%s">`, l.Slug),
		"₹55,00,000",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("share page missing %q:\n%s", want, page)
		}
	}
}

func TestSharePageUnknownSlug(t *testing.T) {
	env := newEnv(t)
	for _, p := range []string{"/p/no-such-home", "/p/Bad_Slug"} {
		status, body := env.do(t, http.MethodGet, p, nil, "")
		if status != http.StatusNotFound || !strings.Contains(string(body), "no longer listed") {
			t.Fatalf("%s: want rendered 404, got %d %s", p, status, body)
		}
	}
}
