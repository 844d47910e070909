package middleware

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/auth"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage/sqlite"
)

const testSecret = "middleware-test-secret"

func newTestGate(t *testing.T) (*Gate, *auth.TokenManager, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.NewStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	tokens := auth.NewTokenManager(testSecret, "myrent-test", time.Hour)
	return NewGate(tokens, store), tokens, store
}

func createUser(t *testing.T, store *sqlite.Store, role models.Role) models.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), models.User{
		Role: role, Name: "Test", Email: string(role) + "@example.com", Phone: "1", PasswordHash: "x",
	})
	require.NoError(t, err)
	return u
}

func TestRequire(t *testing.T) {
	gate, tokens, store := newTestGate(t)
	tenant := createUser(t, store, models.RoleTenant)
	landlord := createUser(t, store, models.RoleLandlord)

	tenantToken, err := tokens.Generate(tenant.Principal())
	require.NoError(t, err)
	landlordToken, err := tokens.Generate(landlord.Principal())
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: tenant.ID,
		Role:   tenant.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "myrent-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if assert.True(t, ok, "principal on context") {
			assert.Equal(t, tenant.ID, p.ID)
			assert.Equal(t, models.RoleTenant, p.Role)
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := gate.Require(models.RoleTenant)(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid tenant token", header: "Bearer " + tenantToken, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + tenantToken, want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + tenantToken, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expiredToken, want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + landlordToken, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestAuthenticateExpiredMessage(t *testing.T) {
	gate, _, store := newTestGate(t)
	u := createUser(t, store, models.RoleTenant)

	short := auth.NewTokenManager(testSecret, "myrent-test", -time.Second)
	token, err := short.Generate(u.Principal())
	require.NoError(t, err)

	_, err = gate.Authenticate(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.Contains(t, err.Error(), "expired")
}

func TestAuthenticateDeletedUser(t *testing.T) {
	gate, tokens, store := newTestGate(t)
	u := createUser(t, store, models.RoleLandlord)
	token, err := tokens.Generate(u.Principal())
	require.NoError(t, err)

	_, err = gate.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(context.Background(), u.ID))
	_, err = gate.Authenticate(context.Background(), "Bearer "+token)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization), "got %v", err)
}

func TestAuthorize(t *testing.T) {
	admin := models.Principal{ID: 1, Role: models.RoleAdmin}
	assert.NoError(t, Authorize(admin))
	assert.NoError(t, Authorize(admin, models.RoleLandlord, models.RoleAdmin))
	assert.True(t, apperr.Is(Authorize(admin, models.RoleTenant), apperr.KindAuthorization))
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://App.example.com")
		rr := httptest.NewRecorder()
		CORS([]string{"https://app.example.com"}, next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Equal(t, "https://App.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard never allows credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://other.example.com")
		rr := httptest.NewRecorder()
		CORS([]string{"*"}, next).ServeHTTP(rr, req)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		CORS([]string{"https://app.example.com"}, next).ServeHTTP(rr, req)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/properties", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		rr := httptest.NewRecorder()
		CORS([]string{"https://app.example.com"}, next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})
}

func TestLogging(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	rr := httptest.NewRecorder()
	Logging(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

type hijackRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestLoggingHijack(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		require.True(t, ok, "logging writer must expose http.Hijacker")
		_, _, err := hj.Hijack()
		assert.NoError(t, err)
	})
	rec := &hijackRecorder{ResponseRecorder: httptest.NewRecorder()}
	Logging(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.True(t, rec.hijacked)
}
