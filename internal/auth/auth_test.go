package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/models/dto"
	"github.com/hongminglow/myrent-be/internal/storage/sqlite"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "issuer", time.Hour)
	token, err := tm.Generate(models.Principal{ID: 42, Role: models.RoleLandlord, Name: "L", Email: "l@example.com"})
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, models.RoleLandlord, claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "issuer", claims.Issuer)
	assert.NotContains(t, token, "l@example.com")
}

func TestTokenParseFailures(t *testing.T) {
	tm := NewTokenManager("secret", "issuer", time.Hour)
	good, err := tm.Generate(models.Principal{ID: 1, Role: models.RoleTenant})
	require.NoError(t, err)

	expired, err := NewTokenManager("secret", "issuer", -time.Minute).Generate(models.Principal{ID: 1, Role: models.RoleTenant})
	require.NoError(t, err)
	_, err = tm.Parse(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	otherSecret, err := NewTokenManager("other", "issuer", time.Hour).Generate(models.Principal{ID: 1, Role: models.RoleTenant})
	require.NoError(t, err)
	otherIssuer, err := NewTokenManager("secret", "someone-else", time.Hour).Generate(models.Principal{ID: 1, Role: models.RoleTenant})
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "issuer"}}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	noUser, err := tm.Generate(models.Principal{ID: 0, Role: models.RoleTenant})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": otherSecret,
		"wrong issuer": otherIssuer,
		"alg none":     none,
		"tampered":     good[:len(good)-2] + "xx",
		"malformed":    "abc.def",
		"no user id":   noUser,
	} {
		_, err := tm.Parse(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, name)
		assert.False(t, errors.Is(err, ErrTokenExpired), name)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func validSignup(role string) dto.SignupRequest {
	return dto.SignupRequest{
		Role:             role,
		Name:             "  Ada Obi ",
		DateOfBirth:      "1992-04-01",
		Email:            " Ada@Example.COM ",
		Password:         "s3cret-pass",
		Phone:            "+2348012345678",
		Address:          "12 Allen Avenue, Ikeja",
		NIN:              "12345678901",
		PassportPhotoURL: "https://cdn.example.com/p.jpg",
		MaritalStatus:    "single",
	}
}

func TestParseSignup(t *testing.T) {
	s, err := ParseSignup(validSignup("landlord"))
	require.NoError(t, err)
	landlord, ok := s.(LandlordSignup)
	require.True(t, ok)
	assert.Equal(t, "Ada Obi", landlord.Name)
	assert.Equal(t, "ada@example.com", landlord.Email)
	assert.Equal(t, "12345678901", landlord.NIN)

	s, err = ParseSignup(validSignup("Tenant"))
	require.NoError(t, err)
	tenant, ok := s.(TenantSignup)
	require.True(t, ok)
	assert.Equal(t, "single", tenant.MaritalStatus)
	assert.Equal(t, models.RoleTenant, tenant.Role())
}

func TestParseSignupRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.SignupRequest)
		want   string
	}{
		{"admin role", func(r *dto.SignupRequest) { r.Role = "admin" }, "invalid role"},
		{"unknown role", func(r *dto.SignupRequest) { r.Role = "agent" }, "invalid role"},
		{"missing role", func(r *dto.SignupRequest) { r.Role = "" }, "missing required fields"},
		{"missing email", func(r *dto.SignupRequest) { r.Email = " " }, "missing required fields"},
		{"bad date", func(r *dto.SignupRequest) { r.DateOfBirth = "01/04/1992" }, "YYYY-MM-DD"},
		{"bad email", func(r *dto.SignupRequest) { r.Email = "ada.example.com" }, "email"},
		{"short password", func(r *dto.SignupRequest) { r.Password = "short" }, "at least 8"},
		{"long password", func(r *dto.SignupRequest) { r.Password = strings.Repeat("a", 80) }, "at most 72 bytes"},
		{"long multibyte password", func(r *dto.SignupRequest) { r.Password = strings.Repeat("é", 37) }, "at most 72 bytes"},
		{"landlord without nin", func(r *dto.SignupRequest) { r.Role = "landlord"; r.NIN = "" }, "landlord registration requires"},
		{"tenant without marital status", func(r *dto.SignupRequest) { r.Role = "tenant"; r.MaritalStatus = "" }, "maritalStatus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup("landlord")
			tt.mutate(&req)
			_, err := ParseSignup(req)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := sqlite.NewStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return NewService(store, NewTokenManager("secret", "issuer", time.Hour))
}

func TestServiceSignupAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	s, err := ParseSignup(validSignup("tenant"))
	require.NoError(t, err)
	id, err := svc.Signup(ctx, s)
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = svc.Signup(ctx, s)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "duplicate email, got %v", err)

	res, err := svc.Login(ctx, "ADA@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Equal(t, models.RoleTenant, res.User.Role)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.NotEmpty(t, res.Token)
}

func TestServiceLoginUniformFailure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	s, err := ParseSignup(validSignup("landlord"))
	require.NoError(t, err)
	_, err = svc.Signup(ctx, s)
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "ada@example.com", "not-the-password")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.True(t, apperr.Is(wrongPassword, apperr.KindAuthentication))

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestServiceSignupLongestPassword(t *testing.T) {
	svc := newTestService(t)
	req := validSignup("tenant")
	req.Password = strings.Repeat("a", 72)
	s, err := ParseSignup(req)
	require.NoError(t, err)
	_, err = svc.Signup(context.Background(), s)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", req.Password)
	assert.NoError(t, err)
}

func TestCreateAdmin(t *testing.T) {
	svc := newTestService(t)
	p, err := ParseProfile("Root", "1980-01-01", "root@example.com", "+1", "admin-password")
	require.NoError(t, err)
	_, err = svc.CreateAdmin(context.Background(), p)
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "root@example.com", "admin-password")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.False(t, strings.Contains(res.Token, "admin-password"))
}
