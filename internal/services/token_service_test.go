package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afisha/internal/config"
	"afisha/internal/middleware"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTTLMin:    15,
		RefreshTTLHours: 720,
	}
}

func parseAccess(t *testing.T, access, secret string) *middleware.Claims {
	t.Helper()
	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(access, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return claims
}

func TestIssueForUser(t *testing.T) {
	users := newFakeUserRepo()
	u, _ := users.GetOrCreateByPhone(testPhone)
	svc := NewTokenService(users, testAuthConfig())

	pair, err := svc.IssueForUser(u)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	claims := parseAccess(t, pair.Access, "test-secret")
	assert.Equal(t, u.ID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	// refresh сохранён за пользователем
	stored, err := users.GetByRefreshToken(pair.Refresh)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, u.ID, stored.ID)
}

func TestRefresh_RotatesToken(t *testing.T) {
	users := newFakeUserRepo()
	u, _ := users.GetOrCreateByPhone(testPhone)
	svc := NewTokenService(users, testAuthConfig())

	pair, err := svc.IssueForUser(u)
	require.NoError(t, err)

	user, next, err := svc.Refresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
	assert.NotEqual(t, pair.Refresh, next.Refresh)

	claims := parseAccess(t, next.Access, "test-secret")
	assert.Equal(t, u.ID, claims.UserID)

	// старый refresh после ротации недействителен
	_, _, err = svc.Refresh(pair.Refresh)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefresh_UnknownToken(t *testing.T) {
	svc := NewTokenService(newFakeUserRepo(), testAuthConfig())

	_, _, err := svc.Refresh("deadbeef")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	users := newFakeUserRepo()
	u, _ := users.GetOrCreateByPhone(testPhone)
	svc := NewTokenService(users, testAuthConfig())

	pair, err := svc.IssueForUser(u)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(721 * time.Hour) }
	_, _, err = svc.Refresh(pair.Refresh)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}

func TestRefresh_RevokedToken(t *testing.T) {
	users := newFakeUserRepo()
	u, _ := users.GetOrCreateByPhone(testPhone)
	svc := NewTokenService(users, testAuthConfig())

	pair, err := svc.IssueForUser(u)
	require.NoError(t, err)
	require.NoError(t, users.ClearRefresh(u.ID))

	_, _, err = svc.Refresh(pair.Refresh)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}
