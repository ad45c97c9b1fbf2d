package services

import (
	"fmt"
	"time"

	"tirupurhomes/internal/domain"
)

// requireAdmin guards every mutating operation, independent of the HTTP
// middleware in front of it.
func requireAdmin(who domain.Principal, action string) error {
	if !who.IsAdmin() {
		return fmt.Errorf("%s: %w", action, domain.ErrForbidden)
	}
	return nil
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
