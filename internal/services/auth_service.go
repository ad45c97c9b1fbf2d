package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tirupurhomes/internal/domain"
	"tirupurhomes/internal/repos"
	"tirupurhomes/internal/validate"
)

var (
	ErrBadCreds = errors.New("invalid email or password")
	ErrBadToken = errors.New("invalid or expired token")
)

const issuer = "tirupurhomes"

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl}
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) now() time.Time { return clock(s.Now).now() }

// Login checks the password of an active account and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (Token, *domain.User, error) {
	u, err := s.Users.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Token{}, nil, ErrBadCreds
		}
		return Token{}, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil || !u.Active {
		return Token{}, nil, ErrBadCreds
	}
	tok, err := s.Issue(u)
	if err != nil {
		return Token{}, nil, err
	}
	return tok, u, nil
}

// Issue signs an HS256 access token for u.
func (s *AuthService) Issue(u *domain.User) (Token, error) {
	now := s.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{AccessToken: signed, TokenType: "bearer", ExpiresIn: int(s.TTL.Seconds())}, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (s *AuthService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	return claims, nil
}

// Authenticate resolves a bearer token to the caller. The account must still
// exist and be active; its stored role wins over the token's.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (domain.Principal, *domain.User, error) {
	claims, err := s.Verify(raw)
	if err != nil {
		return domain.Principal{}, nil, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Principal{}, nil, ErrBadToken
	}
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, nil, ErrBadToken
		}
		return domain.Principal{}, nil, err
	}
	if !u.Active {
		return domain.Principal{}, nil, ErrBadToken
	}
	return domain.Principal{UserID: u.ID, Role: u.Role}, u, nil
}

// CreateUser adds a staff account. Only admins may do this; the role
// defaults to ADMIN.
func (s *AuthService) CreateUser(ctx context.Context, who domain.Principal, in domain.NewUser) (*domain.User, error) {
	if err := requireAdmin(who, "create user"); err != nil {
		return nil, err
	}
	return s.Register(ctx, in)
}

// Register creates an account without a caller check. It backs the CLI and
// startup seeding.
func (s *AuthService) Register(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if !validate.Password(in.Password) {
		return nil, domain.Invalid("password", "must mix upper and lower case letters, digits and symbols")
	}
	if in.Role == 0 {
		in.Role = domain.RoleAdmin
	}
	h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:     in.Email,
		Name:      in.Name,
		Phone:     strings.TrimSpace(in.Phone),
		Hash:      string(h),
		Role:      in.Role,
		Active:    true,
		CreatedAt: s.now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
