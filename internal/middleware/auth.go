package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/auth"
	"github.com/hongminglow/myrent-be/internal/http/respond"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
)

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal stores the authenticated caller on ctx.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the caller stored by Gate.Require.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// Gate authenticates bearer tokens and authorizes callers by role.
type Gate struct {
	tokens *auth.TokenManager
	users  storage.UserStore
}

func NewGate(tokens *auth.TokenManager, users storage.UserStore) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate verifies the Authorization header and re-reads the user, so a
// deleted account stops working even while its token is still valid.
func (g *Gate) Authenticate(ctx context.Context, header string) (models.Principal, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return models.Principal{}, apperr.Authentication("authentication token required")
	}
	claims, err := g.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return models.Principal{}, apperr.Authentication("authentication token expired")
		}
		return models.Principal{}, apperr.Authentication("invalid authentication token")
	}
	user, err := g.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Principal{}, apperr.Authorization("user no longer exists")
		}
		return models.Principal{}, apperr.Internal("failed to load user", err)
	}
	return user.Principal(), nil
}

// Authorize passes when roles is empty or contains the caller's role.
func Authorize(p models.Principal, roles ...models.Role) error {
	if len(roles) == 0 || slices.Contains(roles, p.Role) {
		return nil
	}
	return apperr.Authorization("insufficient permissions")
}

// Require authenticates the request, checks the caller's role and stores the
// principal on the request context.
func (g *Gate) Require(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := g.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				respond.Failure(w, err)
				return
			}
			if err := Authorize(p, roles...); err != nil {
				respond.Failure(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
