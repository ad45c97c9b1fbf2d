package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tirupurhomes/internal/domain"
	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/repos"
	"tirupurhomes/internal/slug"
	"tirupurhomes/internal/storage"
	"tirupurhomes/internal/validate"
)

const DefaultImageFolder = "tirupur-homes"

type ListingService struct {
	Listings *repos.ListingRepo
	Store    storage.ObjectStore
	Folder   string
	Now      func() time.Time
}

func NewListingService(listings *repos.ListingRepo, store storage.ObjectStore) *ListingService {
	return &ListingService{Listings: listings, Store: store, Folder: DefaultImageFolder}
}

func (s *ListingService) now() time.Time { return clock(s.Now).now() }

func (s *ListingService) List(ctx context.Context, f domain.ListingFilter, p domain.Page) ([]domain.ListingSummary, error) {
	ls, err := s.Listings.List(ctx, f, p.Normalize())
	if err != nil {
		return nil, err
	}
	return domain.SummarizeAll(ls), nil
}

func (s *ListingService) Get(ctx context.Context, id int64) (domain.ListingDetail, error) {
	l, err := s.Listings.Get(ctx, id)
	if err != nil {
		return domain.ListingDetail{}, err
	}
	return domain.Detail(l), nil
}

func (s *ListingService) GetBySlug(ctx context.Context, slug string) (domain.ListingDetail, error) {
	l, err := s.Listings.BySlug(ctx, slug)
	if err != nil {
		return domain.ListingDetail{}, err
	}
	return domain.Detail(l), nil
}

// Create validates the payload, allocates a slug from the title and stores
// the listing owned by who.
func (s *ListingService) Create(ctx context.Context, who domain.Principal, in domain.NewListing) (domain.ListingDetail, error) {
	if err := requireAdmin(who, "create listing"); err != nil {
		return domain.ListingDetail{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return domain.ListingDetail{}, err
	}
	l := in.Listing()
	if err := l.Validate(); err != nil {
		return domain.ListingDetail{}, err
	}

	sl, err := slug.Allocate(ctx, slug.Normalize(l.Title), s.Listings.SlugExists)
	if err != nil {
		return domain.ListingDetail{}, err
	}
	l.Slug = sl
	owner := who.UserID
	l.CreatedByID = &owner
	l.CreatedAt = s.now()

	if err := s.Listings.Insert(ctx, &l); err != nil {
		return domain.ListingDetail{}, err
	}
	l.Images = []domain.ListingImage{}
	return domain.Detail(l), nil
}

// Update applies only the supplied fields and refreshes updated_at. The
// patched listing must still satisfy the entity constraints.
func (s *ListingService) Update(ctx context.Context, who domain.Principal, id int64, patch domain.ListingPatch) (domain.ListingDetail, error) {
	if err := requireAdmin(who, "update listing"); err != nil {
		return domain.ListingDetail{}, err
	}
	l, err := s.Listings.Get(ctx, id)
	if err != nil {
		return domain.ListingDetail{}, err
	}
	if err := patch.ApplyTo(&l); err != nil {
		return domain.ListingDetail{}, err
	}
	fields, err := patch.Fields()
	if err != nil {
		return domain.ListingDetail{}, err
	}
	if err := s.Listings.Update(ctx, id, fields, s.now()); err != nil {
		return domain.ListingDetail{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes the listing with its images and inquiries, then drops the
// stored image objects. Storage failures are logged, not returned.
func (s *ListingService) Delete(ctx context.Context, who domain.Principal, id int64) error {
	if err := requireAdmin(who, "delete listing"); err != nil {
		return err
	}
	refs, err := s.Listings.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		s.dropObject(ctx, id, ref)
	}
	return nil
}

// ImageUpload is one photo to attach.
type ImageUpload struct {
	Name        string
	ContentType string
	Data        []byte
	Caption     string
	Order       int
}

// AttachImage uploads the photo and appends it to the listing. If the row
// cannot be stored the upload is deleted again; a failed delete leaves an
// orphan that is logged for reconciliation.
func (s *ListingService) AttachImage(ctx context.Context, who domain.Principal, id int64, up ImageUpload) (domain.ImageView, error) {
	if err := requireAdmin(who, "attach image"); err != nil {
		return domain.ImageView{}, err
	}
	if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
		return domain.ImageView{}, domain.Invalid("file", "must be an image")
	}
	if len(up.Data) == 0 {
		return domain.ImageView{}, domain.Invalid("file", "is empty")
	}
	if up.Order < 0 {
		return domain.ImageView{}, domain.Invalid("order", "must not be negative")
	}
	if _, err := s.Listings.Get(ctx, id); err != nil {
		return domain.ImageView{}, err
	}

	obj, err := s.Store.Put(ctx, fmt.Sprintf("%s/property-%d", s.Folder, id), up.Name, up.ContentType, up.Data)
	if err != nil {
		return domain.ImageView{}, fmt.Errorf("upload image: %w", err)
	}
	img := domain.ListingImage{
		ListingID:  id,
		URL:        obj.URL,
		PublicID:   obj.Ref,
		Caption:    strings.TrimSpace(up.Caption),
		Order:      up.Order,
		UploadedAt: s.now(),
	}
	if err := s.Listings.AddImage(ctx, &img); err != nil {
		if derr := s.Store.Delete(context.WithoutCancel(ctx), obj.Ref); derr != nil {
			applog.Logger().Error("orphaned image object",
				"action", "image_orphaned", "listing_id", id, "ref", obj.Ref, "err", derr)
		}
		return domain.ImageView{}, err
	}
	return domain.ImageView{
		ID:         img.ID,
		URL:        img.URL,
		PublicID:   img.PublicID,
		Caption:    img.Caption,
		Order:      img.Order,
		UploadedAt: img.UploadedAt,
	}, nil
}

func (s *ListingService) DeleteImage(ctx context.Context, who domain.Principal, listingID, imageID int64) error {
	if err := requireAdmin(who, "delete image"); err != nil {
		return err
	}
	img, err := s.Listings.DeleteImage(ctx, listingID, imageID)
	if err != nil {
		return err
	}
	if img.PublicID != "" {
		s.dropObject(ctx, listingID, img.PublicID)
	}
	return nil
}

func (s *ListingService) dropObject(ctx context.Context, listingID int64, ref string) {
	err := s.Store.Delete(context.WithoutCancel(ctx), ref)
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		return
	}
	applog.Logger().Warn("image object not deleted",
		"action", "image_delete_failed", "listing_id", listingID, "ref", ref, "err", err)
}
