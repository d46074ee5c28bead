package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-connect-api/internal/models"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

type mockAccountRepo struct {
	account *models.Account
	err     error
	emails  []string
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	m.emails = append(m.emails, email)
	if m.err != nil {
		return nil, m.err
	}
	if m.account == nil || m.account.Email != email {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "accounts not found")
	}
	return m.account, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockAccountRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAccountRepo{account: &models.Account{
		AccountID:    4,
		ERP:          i64(21001),
		Email:        "ayesha@campus.edu",
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "campus-connect"})
	return svc, repo
}

func TestLoginIssuesTokenWithERPAndRole(t *testing.T) {
	svc, repo := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: " Ayesha@Campus.edu ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ayesha@campus.edu"}, repo.emails)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleStudent, resp.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(21001), claims.ERP)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "campus-connect", claims.Issuer)
}

func TestLoginNormalisesEmailBeforeValidation(t *testing.T) {
	svc, repo := newAuthFixture(t)

	for _, email := range []string{"\tAYESHA@campus.EDU", "ayesha@campus.edu  "} {
		_, err := svc.Login(context.Background(), models.LoginRequest{Email: email, Password: "s3cret-pass"})
		require.NoError(t, err, email)
	}
	assert.Equal(t, []string{"ayesha@campus.edu", "ayesha@campus.edu"}, repo.emails)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "   ", Password: "s3cret-pass"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidProperties))
	assert.Len(t, repo.emails, 2)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ayesha@campus.edu", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@campus.edu", Password: "s3cret-pass"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidProperties))
}

func TestValidateTokenErrors(t *testing.T) {
	svc, _ := newAuthFixture(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ayesha@campus.edu", Password: "s3cret-pass"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.Equal(t, appErrors.CodeTokenExpired, appErrors.FromError(err).Code)

	svc.now = func() time.Time { return time.Now().UTC() }
	_, err = svc.ValidateToken(resp.AccessToken + "x")
	assert.Equal(t, appErrors.CodeTokenVerification, appErrors.FromError(err).Code)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{Role: models.RoleAdmin})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Equal(t, appErrors.CodeTokenVerification, appErrors.FromError(err).Code)
}
