package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tirupurhomes/internal/domain"
	"tirupurhomes/internal/repos"
	"tirupurhomes/internal/services"
)

func newAuth(t *testing.T) (*services.AuthService, *time.Time) {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := services.NewAuthService(repos.NewUserRepo(db), "test-secret", 30*time.Minute)
	svc.Now = func() time.Time { return now }
	return svc, &now
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, domain.NewUser{Email: "Owner@Tirupur.Homes", Name: "Owner", Password: "Sup3rSecret!"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, "owner@tirupur.homes", u.Email)

	tok, got, err := svc.Login(ctx, "owner@tirupur.homes", "Sup3rSecret!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, 1800, tok.ExpiresIn)

	p, _, err := svc.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{UserID: u.ID, Role: domain.RoleAdmin}, p)

	_, _, err = svc.Login(ctx, "owner@tirupur.homes", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = svc.Login(ctx, "nobody@tirupur.homes", "Sup3rSecret!")
	assert.ErrorIs(t, err, services.ErrBadCreds)
}

func TestTokenExpiryAndTampering(t *testing.T) {
	svc, now := newAuth(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, domain.NewUser{Email: "a@b.in", Name: "Agent", Password: "Sup3rSecret!", Role: domain.RoleAgent})
	require.NoError(t, err)
	tok, err := svc.Issue(u)
	require.NoError(t, err)

	p, _, err := svc.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.False(t, p.IsAdmin())

	_, _, err = svc.Authenticate(ctx, tok.AccessToken+"x")
	assert.ErrorIs(t, err, services.ErrBadToken)

	other := services.NewAuthService(svc.Users, "another-secret", time.Minute)
	_, err = other.Verify(tok.AccessToken)
	assert.ErrorIs(t, err, services.ErrBadToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "iss": "tirupurhomes"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.ErrorIs(t, err, services.ErrBadToken)

	*now = now.Add(31 * time.Minute)
	_, _, err = svc.Authenticate(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, services.ErrBadToken)
}

func TestCreateUser(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	admin := domain.Principal{UserID: 1, Role: domain.RoleAdmin}
	agent := domain.Principal{UserID: 2, Role: domain.RoleAgent}

	in := domain.NewUser{Email: "new@tirupur.homes", Name: "New Agent", Password: "Sup3rSecret!", Role: domain.RoleAgent}
	_, err := svc.CreateUser(ctx, agent, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	u, err := svc.CreateUser(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, u.Role)
	assert.True(t, u.Active)

	_, err = svc.CreateUser(ctx, admin, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CreateUser(ctx, admin, domain.NewUser{Email: "x", Name: "N", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
