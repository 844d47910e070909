package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, role, name, date_of_birth, email, phone,
	COALESCE(address, ''), COALESCE(nin, ''), COALESCE(passport_photo_url, ''), COALESCE(marital_status, ''),
	password_hash, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (role, name, date_of_birth, email, password_hash, phone, address, nin, passport_photo_url, marital_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query,
		string(user.Role), user.Name, user.DateOfBirth, user.Email, user.PasswordHash, user.Phone,
		nullIfEmpty(user.Address), nullIfEmpty(user.NIN), nullIfEmpty(user.PassportPhotoURL), nullIfEmpty(user.MaritalStatus),
	)
	created, err := scanUser(row)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// ListUsers returns every account ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
		return scanUser(row)
	})
}

// DeleteUser removes an account; owned properties and messages cascade.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var role string
	if err := row.Scan(&user.ID, &role, &user.Name, &user.DateOfBirth, &user.Email, &user.Phone,
		&user.Address, &user.NIN, &user.PassportPhotoURL, &user.MaritalStatus,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Role = models.Role(role)
	return user, nil
}
