package domain

import (
	"sort"
	"time"
)

type ListingSummary struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	Price          float64       `json:"price"`
	Type           PropertyType  `json:"property_type"`
	Status         ListingStatus `json:"status"`
	City           string        `json:"city"`
	Bedrooms       int           `json:"bedrooms"`
	Bathrooms      int           `json:"bathrooms"`
	Area           int           `json:"area"`
	IsFeatured     bool          `json:"is_featured"`
	IsSpecialOffer bool          `json:"is_special_offer"`
	Thumbnail      string        `json:"thumbnail,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type ImageView struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	PublicID   string    `json:"public_id,omitempty"`
	Caption    string    `json:"caption,omitempty"`
	Order      int       `json:"order"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ListingDetail struct {
	ID             int64         `json:"id"`
	Slug           string        `json:"slug"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Price          float64       `json:"price"`
	Type           PropertyType  `json:"property_type"`
	Status         ListingStatus `json:"status"`
	Address        string        `json:"address,omitempty"`
	City           string        `json:"city"`
	State          string        `json:"state"`
	ZipCode        string        `json:"zip_code,omitempty"`
	Bedrooms       int           `json:"bedrooms"`
	Bathrooms      int           `json:"bathrooms"`
	Area           int           `json:"area"`
	Parking        bool          `json:"parking"`
	Furnished      bool          `json:"furnished"`
	IsFeatured     bool          `json:"is_featured"`
	IsSpecialOffer bool          `json:"is_special_offer"`
	OfferText      string        `json:"offer_text,omitempty"`
	Images         []ImageView   `json:"images"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      *time.Time    `json:"updated_at"`
}

// SortImages orders images for display: by Order, then by id.
func SortImages(imgs []ListingImage) {
	sort.SliceStable(imgs, func(i, j int) bool {
		if imgs[i].Order != imgs[j].Order {
			return imgs[i].Order < imgs[j].Order
		}
		return imgs[i].ID < imgs[j].ID
	})
}

// Thumbnail is the url of the first image in display order, or "".
func (l *Listing) Thumbnail() string {
	var best *ListingImage
	for i := range l.Images {
		img := &l.Images[i]
		if best == nil || img.Order < best.Order || (img.Order == best.Order && img.ID < best.ID) {
			best = img
		}
	}
	if best == nil {
		return ""
	}
	return best.URL
}

func Summarize(l Listing) ListingSummary {
	return ListingSummary{
		ID:             l.ID,
		Title:          l.Title,
		Slug:           l.Slug,
		Price:          l.Price,
		Type:           l.Type,
		Status:         l.Status,
		City:           l.City,
		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms,
		Area:           l.Area,
		IsFeatured:     l.IsFeatured,
		IsSpecialOffer: l.IsSpecialOffer,
		Thumbnail:      l.Thumbnail(),
		CreatedAt:      l.CreatedAt,
	}
}

func SummarizeAll(ls []Listing) []ListingSummary {
	out := make([]ListingSummary, 0, len(ls))
	for _, l := range ls {
		out = append(out, Summarize(l))
	}
	return out
}

func Detail(l Listing) ListingDetail {
	imgs := append([]ListingImage(nil), l.Images...)
	SortImages(imgs)
	views := make([]ImageView, 0, len(imgs))
	for _, img := range imgs {
		views = append(views, ImageView{
			ID:         img.ID,
			URL:        img.URL,
			PublicID:   img.PublicID,
			Caption:    img.Caption,
			Order:      img.Order,
			UploadedAt: img.UploadedAt,
		})
	}
	return ListingDetail{
		ID:             l.ID,
		Slug:           l.Slug,
		Title:          l.Title,
		Description:    l.Description,
		Price:          l.Price,
		Type:           l.Type,
		Status:         l.Status,
		Address:        l.Address,
		City:           l.City,
		State:          l.State,
		ZipCode:        l.ZipCode,
		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms,
		Area:           l.Area,
		Parking:        l.Parking,
		Furnished:      l.Furnished,
		IsFeatured:     l.IsFeatured,
		IsSpecialOffer: l.IsSpecialOffer,
		OfferText:      l.OfferText,
		Images:         views,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
