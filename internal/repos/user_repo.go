package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"tirupurhomes/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, name, phone, password_hash, role, is_active, created_at`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userColumns+` FROM users WHERE id=?`), id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// Create stores u with its email lowercased and sets the id. A taken email
// is ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(`
  INSERT INTO users(email, name, phone, password_hash, role, is_active, created_at)
  VALUES(?,?,?,?,?,?,?)
  RETURNING id`),
		u.Email, u.Name, u.Phone, u.Hash, u.Role, u.Active, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", u.Email, domain.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
