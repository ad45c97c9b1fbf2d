package repos

import (
	"strings"

	"tirupurhomes/internal/domain"
)

const listingColumns = `id, slug, title, description, price, property_type, status, address, city, state,
  zip_code, bedrooms, bathrooms, area, parking, furnished, is_featured, is_special_offer, offer_text,
  created_by_id, created_at, updated_at`

// listingQuery accumulates WHERE conditions and their args. Placeholders are
// written as ? and rebound for the driver at the end.
type listingQuery struct {
	conds []string
	args  []any
}

func (q *listingQuery) where(cond string, args ...any) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
}

// buildListingQuery turns a filter and page into a SELECT. Every present
// criterion is ANDed; status always applies and defaults to AVAILABLE.
// Results are newest first, ties broken by id.
func buildListingQuery(f domain.ListingFilter, p domain.Page) (string, []any) {
	var q listingQuery
	q.where(`status = ?`, f.EffectiveStatus())

	if f.Type != nil {
		q.where(`property_type = ?`, *f.Type)
	}
	if f.MinPrice != nil {
		q.where(`price >= ?`, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q.where(`price <= ?`, *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		q.where(`bedrooms >= ?`, *f.MinBedrooms)
	}
	if f.City != nil {
		q.where(`LOWER(city) LIKE LOWER(?) ESCAPE '\'`, contains(*f.City))
	}
	if f.Featured != nil {
		q.where(`is_featured = ?`, *f.Featured)
	}
	if f.Search != nil && *f.Search != "" {
		pat := contains(*f.Search)
		q.where(`(LOWER(title) LIKE LOWER(?) ESCAPE '\'
  OR LOWER(description) LIKE LOWER(?) ESCAPE '\'
  OR LOWER(address) LIKE LOWER(?) ESCAPE '\')`, pat, pat, pat)
	}

	p = p.Normalize()
	sql := `SELECT ` + listingColumns + `
FROM listings
WHERE ` + strings.Join(q.conds, " AND ") + `
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`
	return sql, append(q.args, p.Limit, p.Skip)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds a LIKE pattern matching s anywhere, with s taken literally.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
