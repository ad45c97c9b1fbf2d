// Package slug derives URL-safe listing identifiers from titles.
package slug

import (
	"context"
	"fmt"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// Fallback replaces a title that normalises to nothing.
const Fallback = "listing"

// Normalize transliterates title to ASCII, lowercases it, and collapses
// every run of characters outside [a-z0-9] into a single hyphen. The result
// never starts or ends with a hyphen and may be empty.
func Normalize(title string) string {
	folded := unidecode.Unidecode(norm.NFKC.String(title))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// ExistsFunc reports whether a listing already uses slug.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Allocate returns base if it is free, otherwise the first free base-N for
// N = 1, 2, ... The check is not a lock: two concurrent callers can get the
// same answer, and the store's unique index decides.
func Allocate(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = Fallback
	}
	candidate := base
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
