package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListingFilter holds the optional search criteria. A nil field imposes no
// constraint; Status falls back to StatusAvailable.
type ListingFilter struct {
	Type        *PropertyType
	Status      *ListingStatus
	MinPrice    *float64
	MaxPrice    *float64
	MinBedrooms *int
	City        *string
	Featured    *bool
	Search      *string
}

// EffectiveStatus is the status the query is restricted to.
func (f ListingFilter) EffectiveStatus() ListingStatus {
	if f.Status != nil {
		return *f.Status
	}
	return StatusAvailable
}

type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps skip to >= 0 and limit to [1, MaxPageSize]; a zero limit
// means the default page size.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	switch {
	case p.Limit == 0:
		p.Limit = DefaultPageSize
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return p
}
