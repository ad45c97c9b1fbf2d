package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"tirupurhomes/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// OpenDB connects with the given driver ("sqlite" or "pgx") and makes sure
// the schema exists.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// an in-memory database lives and dies with its connection
		if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			db.SetMaxOpenConns(1)
		}
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	stmts := sqliteSchema
	if db.DriverName() == DriverPostgres {
		stmts = postgresSchema
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,

	`CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'ADMIN' CHECK (role IN ('ADMIN','AGENT')),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TIMESTAMP NOT NULL
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email))`,

	`CREATE TABLE IF NOT EXISTS listings(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  slug TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL CHECK (price > 0),
  property_type TEXT NOT NULL CHECK (property_type IN ('BUY','SELL','RENT')),
  status TEXT NOT NULL DEFAULT 'AVAILABLE' CHECK (status IN ('AVAILABLE','SOLD','RENTED','PENDING')),
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT 'Tirupur',
  state TEXT NOT NULL DEFAULT 'Tamil Nadu',
  zip_code TEXT NOT NULL DEFAULT '',
  bedrooms INTEGER NOT NULL DEFAULT 1 CHECK (bedrooms >= 1),
  bathrooms INTEGER NOT NULL DEFAULT 1 CHECK (bathrooms >= 1),
  area INTEGER NOT NULL CHECK (area > 0),
  parking INTEGER NOT NULL DEFAULT 0,
  furnished INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_special_offer INTEGER NOT NULL DEFAULT 0,
  offer_text TEXT NOT NULL DEFAULT '',
  created_by_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_slug ON listings(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_status_created ON listings(status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(LOWER(city))`,

	`CREATE TABLE IF NOT EXISTS listing_images(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  listing_id INTEGER NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  url TEXT NOT NULL,
  public_id TEXT NOT NULL DEFAULT '',
  caption TEXT NOT NULL DEFAULT '',
  sort_order INTEGER NOT NULL DEFAULT 0,
  uploaded_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_listing_images_listing ON listing_images(listing_id)`,

	`CREATE TABLE IF NOT EXISTS inquiries(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  property_id INTEGER REFERENCES listings(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  message TEXT NOT NULL,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_inquiries_created ON inquiries(created_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users(
  id BIGSERIAL PRIMARY KEY,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'ADMIN' CHECK (role IN ('ADMIN','AGENT')),
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email))`,

	`CREATE TABLE IF NOT EXISTS listings(
  id BIGSERIAL PRIMARY KEY,
  slug TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price DOUBLE PRECISION NOT NULL CHECK (price > 0),
  property_type TEXT NOT NULL CHECK (property_type IN ('BUY','SELL','RENT')),
  status TEXT NOT NULL DEFAULT 'AVAILABLE' CHECK (status IN ('AVAILABLE','SOLD','RENTED','PENDING')),
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT 'Tirupur',
  state TEXT NOT NULL DEFAULT 'Tamil Nadu',
  zip_code TEXT NOT NULL DEFAULT '',
  bedrooms INTEGER NOT NULL DEFAULT 1 CHECK (bedrooms >= 1),
  bathrooms INTEGER NOT NULL DEFAULT 1 CHECK (bathrooms >= 1),
  area INTEGER NOT NULL CHECK (area > 0),
  parking BOOLEAN NOT NULL DEFAULT FALSE,
  furnished BOOLEAN NOT NULL DEFAULT FALSE,
  is_featured BOOLEAN NOT NULL DEFAULT FALSE,
  is_special_offer BOOLEAN NOT NULL DEFAULT FALSE,
  offer_text TEXT NOT NULL DEFAULT '',
  created_by_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_slug ON listings(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_status_created ON listings(status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(LOWER(city))`,

	`CREATE TABLE IF NOT EXISTS listing_images(
  id BIGSERIAL PRIMARY KEY,
  listing_id BIGINT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  url TEXT NOT NULL,
  public_id TEXT NOT NULL DEFAULT '',
  caption TEXT NOT NULL DEFAULT '',
  sort_order INTEGER NOT NULL DEFAULT 0,
  uploaded_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_listing_images_listing ON listing_images(listing_id)`,

	`CREATE TABLE IF NOT EXISTS inquiries(
  id BIGSERIAL PRIMARY KEY,
  property_id BIGINT REFERENCES listings(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  message TEXT NOT NULL,
  is_read BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_inquiries_created ON inquiries(created_at)`,
}

// isUniqueViolation reports whether err is a unique-constraint failure on
// either backend.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// SeedOptions controls the idempotent startup data.
type SeedOptions struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
	Demo          bool
	Now           func() time.Time
}

// Seed ensures the bootstrap admin exists and, when asked, that the demo
// listings are present. Safe to run on every start.
func Seed(db *sqlx.DB, opts SeedOptions) error {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	var adminID *int64
	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		id, err := seedAdmin(db, opts, now())
		if err != nil {
			return err
		}
		adminID = &id
	}
	if opts.Demo {
		return seedDemoListings(db, adminID, now())
	}
	return nil
}

func seedAdmin(db *sqlx.DB, opts SeedOptions, now time.Time) (int64, error) {
	var id int64
	err := db.Get(&id, db.Rebind(`SELECT id FROM users WHERE LOWER(email)=LOWER(?)`), opts.AdminEmail)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	name := opts.AdminName
	if name == "" {
		name = "Administrator"
	}
	err = db.QueryRowx(db.Rebind(`
		INSERT INTO users(email,name,phone,password_hash,role,is_active,created_at)
		VALUES(?,?,'',?,?,?,?)
		RETURNING id`),
		strings.ToLower(opts.AdminEmail), name, string(h), domain.RoleAdmin, true, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed admin: %w", err)
	}
	slog.Info("seed", "action", "admin_created", "email", opts.AdminEmail)
	return id, nil
}

type demoListing struct {
	slug, title, desc string
	price             float64
	typ               domain.PropertyType
	bedrooms, baths   int
	area              int
	featured          bool
	offer             string
}

var demoListings = []demoListing{
	{"3bhk-independent-house-in-avinashi-road", "3BHK Independent House in Avinashi Road", "East facing house with covered car parking.", 6500000, domain.TypeBuy, 3, 2, 1650, true, ""},
	{"2bhk-apartment-for-rent-near-kumaran-road", "2BHK Apartment for Rent near Kumaran Road", "Semi furnished flat close to schools and the bus stand.", 15000, domain.TypeRent, 2, 2, 1100, false, ""},
	{"commercial-plot-on-palladam-road", "Commercial Plot on Palladam Road", "Approved plot suited for a showroom or warehouse.", 12000000, domain.TypeSell, 1, 1, 4800, true, "Registration charges included"},
}

func seedDemoListings(db *sqlx.DB, adminID *int64, now time.Time) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range demoListings {
		var n int
		if err := tx.Get(&n, tx.Rebind(`SELECT COUNT(*) FROM listings WHERE slug=?`), d.slug); err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO listings(slug,title,description,price,property_type,status,city,state,
			  bedrooms,bathrooms,area,parking,furnished,is_featured,is_special_offer,offer_text,created_by_id,created_at)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`),
			d.slug, d.title, d.desc, d.price, d.typ, domain.StatusAvailable, domain.DefaultCity, domain.DefaultState,
			d.bedrooms, d.baths, d.area, true, false, d.featured, d.offer != "", d.offer, adminID, now); err != nil {
			return fmt.Errorf("seed listing %s: %w", d.slug, err)
		}
	}
	return tx.Commit()
}
