package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tirupurhomes/internal/domain"
)

type InquiryRepo struct{ db *sqlx.DB }

func NewInquiryRepo(db *sqlx.DB) *InquiryRepo { return &InquiryRepo{db: db} }

const inquiryColumns = `id, property_id, name, email, phone, message, is_read, created_at`

// Create stores q and sets its id. A property_id that names no listing is
// reported as not found.
func (r *InquiryRepo) Create(ctx context.Context, q *domain.Inquiry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if q.ListingID != nil {
		var n int
		if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM listings WHERE id = ?`), *q.ListingID); err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("listing %d: %w", *q.ListingID, domain.ErrNotFound)
		}
	}
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
  INSERT INTO inquiries(property_id, name, email, phone, message, is_read, created_at)
  VALUES(?,?,?,?,?,?,?)
  RETURNING id`),
		q.ListingID, q.Name, q.Email, q.Phone, q.Message, q.IsRead, q.CreatedAt,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return tx.Commit()
}

// List returns inquiries newest first, optionally only unread ones.
func (r *InquiryRepo) List(ctx context.Context, unreadOnly bool, p domain.Page) ([]domain.Inquiry, error) {
	where := ``
	if unreadOnly {
		where = `WHERE is_read = ?`
	}
	q := `SELECT ` + inquiryColumns + ` FROM inquiries ` + where + `
  ORDER BY created_at DESC, id DESC
  LIMIT ? OFFSET ?`
	args := []any{}
	if unreadOnly {
		args = append(args, false)
	}
	args = append(args, p.Limit, p.Skip)

	out := []domain.Inquiry{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...)
	return out, err
}

func (r *InquiryRepo) Get(ctx context.Context, id int64) (domain.Inquiry, error) {
	var q domain.Inquiry
	err := r.db.GetContext(ctx, &q, r.db.Rebind(`SELECT `+inquiryColumns+` FROM inquiries WHERE id = ?`), id)
	if err != nil {
		return domain.Inquiry{}, notFound(err, "inquiry")
	}
	return q, nil
}

func (r *InquiryRepo) MarkRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE inquiries SET is_read = ? WHERE id = ?`), true, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("inquiry %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
