package domain

import (
	"time"
	"unicode/utf8"
)

const (
	DefaultCity  = "Tirupur"
	DefaultState = "Tamil Nadu"
)

type Listing struct {
	ID             int64         `db:"id"`
	Slug           string        `db:"slug"`
	Title          string        `db:"title"`
	Description    string        `db:"description"`
	Price          float64       `db:"price"`
	Type           PropertyType  `db:"property_type"`
	Status         ListingStatus `db:"status"`
	Address        string        `db:"address"`
	City           string        `db:"city"`
	State          string        `db:"state"`
	ZipCode        string        `db:"zip_code"`
	Bedrooms       int           `db:"bedrooms"`
	Bathrooms      int           `db:"bathrooms"`
	Area           int           `db:"area"`
	Parking        bool          `db:"parking"`
	Furnished      bool          `db:"furnished"`
	IsFeatured     bool          `db:"is_featured"`
	IsSpecialOffer bool          `db:"is_special_offer"`
	OfferText      string        `db:"offer_text"`
	CreatedByID    *int64        `db:"created_by_id"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      *time.Time    `db:"updated_at"`

	Images []ListingImage `db:"-"`
}

// Validate checks the entity constraints every stored listing satisfies.
func (l *Listing) Validate() error {
	var ve ValidationError
	if n := utf8.RuneCountInString(l.Title); n < 3 || n > 200 {
		ve.Add("title", "must be between 3 and 200 characters")
	}
	if !(l.Price > 0) {
		ve.Add("price", "must be greater than 0")
	}
	if !l.Type.Valid() {
		ve.Add("property_type", "must be one of BUY, SELL, RENT")
	}
	if !l.Status.Valid() {
		ve.Add("status", "must be one of AVAILABLE, SOLD, RENTED, PENDING")
	}
	if l.Bedrooms < 1 {
		ve.Add("bedrooms", "must be at least 1")
	}
	if l.Bathrooms < 1 {
		ve.Add("bathrooms", "must be at least 1")
	}
	if l.Area <= 0 {
		ve.Add("area", "must be greater than 0")
	}
	return ve.Err()
}

type ListingImage struct {
	ID         int64     `db:"id"`
	ListingID  int64     `db:"listing_id"`
	URL        string    `db:"url"`
	PublicID   string    `db:"public_id"`
	Caption    string    `db:"caption"`
	Order      int       `db:"sort_order"`
	UploadedAt time.Time `db:"uploaded_at"`
}

// NewListing is the create payload. Bedrooms and bathrooms are pointers so
// an explicit 0 is rejected instead of being replaced by the default.
type NewListing struct {
	Title          string        `json:"title" form:"title" validate:"required,min=3,max=200"`
	Description    string        `json:"description" form:"description"`
	Price          float64       `json:"price" form:"price" validate:"gt=0"`
	Type           PropertyType  `json:"property_type" form:"property_type" validate:"required"`
	Status         ListingStatus `json:"status" form:"status"`
	Address        string        `json:"address" form:"address" validate:"max=255"`
	City           string        `json:"city" form:"city" validate:"max=100"`
	State          string        `json:"state" form:"state" validate:"max=100"`
	ZipCode        string        `json:"zip_code" form:"zip_code" validate:"max=10"`
	Bedrooms       *int          `json:"bedrooms" form:"bedrooms" validate:"omitempty,min=1"`
	Bathrooms      *int          `json:"bathrooms" form:"bathrooms" validate:"omitempty,min=1"`
	Area           int           `json:"area" form:"area" validate:"gt=0"`
	Parking        bool          `json:"parking" form:"parking"`
	Furnished      bool          `json:"furnished" form:"furnished"`
	IsFeatured     bool          `json:"is_featured" form:"is_featured"`
	IsSpecialOffer bool          `json:"is_special_offer" form:"is_special_offer"`
	OfferText      string        `json:"offer_text" form:"offer_text" validate:"max=200"`
}

// Listing fills defaults and returns the entity to insert. Slug, id and
// timestamps are left for the caller.
func (n NewListing) Listing() Listing {
	l := Listing{
		Title:          n.Title,
		Description:    n.Description,
		Price:          n.Price,
		Type:           n.Type,
		Status:         n.Status,
		Address:        n.Address,
		City:           n.City,
		State:          n.State,
		ZipCode:        n.ZipCode,
		Bedrooms:       1,
		Bathrooms:      1,
		Area:           n.Area,
		Parking:        n.Parking,
		Furnished:      n.Furnished,
		IsFeatured:     n.IsFeatured,
		IsSpecialOffer: n.IsSpecialOffer,
		OfferText:      n.OfferText,
	}
	if l.Status == 0 {
		l.Status = StatusAvailable
	}
	if l.City == "" {
		l.City = DefaultCity
	}
	if l.State == "" {
		l.State = DefaultState
	}
	if n.Bedrooms != nil {
		l.Bedrooms = *n.Bedrooms
	}
	if n.Bathrooms != nil {
		l.Bathrooms = *n.Bathrooms
	}
	return l
}

// Inquiry is a contact message. ListingID is nil for general inquiries.
type Inquiry struct {
	ID        int64     `db:"id" json:"id"`
	ListingID *int64    `db:"property_id" json:"property_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type NewInquiry struct {
	ListingID *int64 `json:"property_id" form:"property_id"`
	Name      string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" form:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" form:"phone" validate:"required,min=10,max=20"`
	Message   string `json:"message" form:"message" validate:"required,min=10"`
}
