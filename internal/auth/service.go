package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
)

var errInvalidCredentials = apperr.Authentication("invalid credentials")

// Service verifies credentials and issues tokens.
type Service struct {
	users  storage.UserStore
	tokens *TokenManager
}

func NewService(users storage.UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// LoginResult is the token plus the safe-to-expose snapshot of the user.
type LoginResult struct {
	Token string
	User  models.Principal
}

// Signup stores a new account and returns its id.
func (s *Service) Signup(ctx context.Context, su Signup) (int64, error) {
	return s.create(ctx, su.user(""), su.Credentials().Password)
}

// CreateAdmin provisions an admin account. Admins cannot sign up over HTTP.
func (s *Service) CreateAdmin(ctx context.Context, p Profile) (int64, error) {
	return s.create(ctx, p.user(models.RoleAdmin, ""), p.Password)
}

func (s *Service) create(ctx context.Context, user models.User, password string) (int64, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return 0, apperr.Internal("failed to hash password", err)
	}
	user.PasswordHash = hash
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return 0, apperr.Conflict("user with this email already exists")
		}
		return 0, apperr.Internal("failed to register user", err)
	}
	return created.ID, nil
}

// Login fails with the same error whether the email is unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return LoginResult{}, apperr.Validation("email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			burnCompare(password)
			return LoginResult{}, errInvalidCredentials
		}
		return LoginResult{}, apperr.Internal("failed to log in", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return LoginResult{}, errInvalidCredentials
	}
	principal := user.Principal()
	token, err := s.tokens.Generate(principal)
	if err != nil {
		return LoginResult{}, apperr.Internal("failed to generate token", err)
	}
	return LoginResult{Token: token, User: principal}, nil
}
