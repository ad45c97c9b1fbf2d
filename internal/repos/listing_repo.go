package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"tirupurhomes/internal/domain"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

func (r *ListingRepo) Get(ctx context.Context, id int64) (domain.Listing, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *ListingRepo) BySlug(ctx context.Context, slug string) (domain.Listing, error) {
	return r.getOne(ctx, `slug = ?`, slug)
}

func (r *ListingRepo) getOne(ctx context.Context, cond string, arg any) (domain.Listing, error) {
	var l domain.Listing
	q := r.db.Rebind(`SELECT ` + listingColumns + ` FROM listings WHERE ` + cond)
	if err := r.db.GetContext(ctx, &l, q, arg); err != nil {
		return domain.Listing{}, notFound(err, "listing")
	}
	ls := []domain.Listing{l}
	if err := r.loadImages(ctx, ls); err != nil {
		return domain.Listing{}, err
	}
	return ls[0], nil
}

// SlugExists is the lookup the slug allocator probes with.
func (r *ListingRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM listings WHERE slug = ?`), slug)
	return n > 0, err
}

// List runs the filtered query and attaches each listing's images.
func (r *ListingRepo) List(ctx context.Context, f domain.ListingFilter, p domain.Page) ([]domain.Listing, error) {
	q, args := buildListingQuery(f, p)
	out := []domain.Listing{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ListingRepo) loadImages(ctx context.Context, ls []domain.Listing) error {
	if len(ls) == 0 {
		return nil
	}
	ids := make([]int64, len(ls))
	idx := make(map[int64]int, len(ls))
	for i, l := range ls {
		ids[i] = l.ID
		idx[l.ID] = i
		ls[i].Images = []domain.ListingImage{}
	}
	q, args, err := sqlx.In(`
  SELECT id, listing_id, url, public_id, caption, sort_order, uploaded_at
  FROM listing_images
  WHERE listing_id IN (?)
  ORDER BY sort_order, id`, ids)
	if err != nil {
		return err
	}
	var imgs []domain.ListingImage
	if err := r.db.SelectContext(ctx, &imgs, r.db.Rebind(q), args...); err != nil {
		return err
	}
	for _, img := range imgs {
		i := idx[img.ListingID]
		ls[i].Images = append(ls[i].Images, img)
	}
	return nil
}

// Insert stores l and sets its id. A taken slug surfaces as ErrConflict.
func (r *ListingRepo) Insert(ctx context.Context, l *domain.Listing) error {
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
  INSERT INTO listings(slug, title, description, price, property_type, status, address, city, state,
    zip_code, bedrooms, bathrooms, area, parking, furnished, is_featured, is_special_offer, offer_text,
    created_by_id, created_at, updated_at)
  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
  RETURNING id`),
		l.Slug, l.Title, l.Description, l.Price, l.Type, l.Status, l.Address, l.City, l.State,
		l.ZipCode, l.Bedrooms, l.Bathrooms, l.Area, l.Parking, l.Furnished, l.IsFeatured, l.IsSpecialOffer, l.OfferText,
		l.CreatedByID, l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slug %q taken: %w", l.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// Update writes the given columns plus updated_at in one statement. The
// columns come from domain.ListingPatch's allowlist.
func (r *ListingRepo) Update(ctx context.Context, id int64, fields []domain.Field, now time.Time) error {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for _, f := range fields {
		sets = append(sets, f.Column+" = ?")
		args = append(args, f.Value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE listings SET `+strings.Join(sets, ", ")+` WHERE id = ?`), args...)
	if err != nil {
		return fmt.Errorf("update listing %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("listing %d: %w", id, domain.ErrNotFound)
	}
	return tx.Commit()
}

// Delete removes the listing with its images and inquiries and returns the
// storage refs of the removed images.
func (r *ListingRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM listings WHERE id = ?`), id); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("listing %d: %w", id, domain.ErrNotFound)
	}

	var refs []string
	if err := tx.SelectContext(ctx, &refs, tx.Rebind(`
  SELECT public_id FROM listing_images WHERE listing_id = ? AND public_id <> '' ORDER BY id`), id); err != nil {
		return nil, err
	}
	for _, q := range []string{
		`DELETE FROM listing_images WHERE listing_id = ?`,
		`DELETE FROM inquiries WHERE property_id = ?`,
		`DELETE FROM listings WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), id); err != nil {
			return nil, fmt.Errorf("delete listing %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return refs, nil
}

// AddImage appends img to its listing and sets the image id. The listing's
// updated_at is left alone.
func (r *ListingRepo) AddImage(ctx context.Context, img *domain.ListingImage) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM listings WHERE id = ?`), img.ListingID); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("listing %d: %w", img.ListingID, domain.ErrNotFound)
	}
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
  INSERT INTO listing_images(listing_id, url, public_id, caption, sort_order, uploaded_at)
  VALUES(?,?,?,?,?,?)
  RETURNING id`),
		img.ListingID, img.URL, img.PublicID, img.Caption, img.Order, img.UploadedAt,
	).Scan(&img.ID)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return tx.Commit()
}

// DeleteImage removes one image of a listing and returns the removed row.
func (r *ListingRepo) DeleteImage(ctx context.Context, listingID, imageID int64) (domain.ListingImage, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.ListingImage{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var img domain.ListingImage
	err = tx.GetContext(ctx, &img, tx.Rebind(`
  SELECT id, listing_id, url, public_id, caption, sort_order, uploaded_at
  FROM listing_images WHERE id = ? AND listing_id = ?`), imageID, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ListingImage{}, fmt.Errorf("image %d of listing %d: %w", imageID, listingID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.ListingImage{}, err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM listing_images WHERE id = ?`), imageID); err != nil {
		return domain.ListingImage{}, err
	}
	return img, tx.Commit()
}
