package domain

import "time"

type User struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	Hash      string    `db:"password_hash"`
	Role      Role      `db:"role"`
	Active    bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID int64
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type NewUser struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role"`
}
