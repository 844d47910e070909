package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/myrent-be/internal/listing"
	"github.com/hongminglow/myrent-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// Both wrap ErrNotFound.
var (
	ErrRecipientNotFound = fmt.Errorf("recipient user: %w", ErrNotFound)
	ErrPropertyNotFound  = fmt.Errorf("property: %w", ErrNotFound)
)

// UserStore is the credential store.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// PropertyStore persists listings. Every read takes a predicate built by the listing
// package so the visibility policy is applied inside the query.
type PropertyStore interface {
	// CreateProperty writes the property row and its image rows in one transaction.
	CreateProperty(ctx context.Context, p models.NewProperty) (models.Property, error)
	ListProperties(ctx context.Context, where listing.Predicate) ([]models.Property, error)
	// GetProperty returns the property with its owner contact, unfiltered.
	GetProperty(ctx context.Context, id int64) (models.Property, error)
	SetOccupancy(ctx context.Context, id int64, occupied bool) error
}

// VerificationStore is the admin verification ledger.
type VerificationStore interface {
	// SetVerification updates the property's verified flag and appends a ledger entry
	// in the same transaction.
	SetVerification(ctx context.Context, propertyID, adminID int64, verified bool) (models.VerificationRecord, error)
	ListVerifications(ctx context.Context, propertyID int64) ([]models.VerificationRecord, error)
}

// MessageStore persists immutable messages.
type MessageStore interface {
	// CreateMessage fails with ErrNotFound when the recipient or property is missing.
	CreateMessage(ctx context.Context, m models.Message) (models.Message, error)
	// Conversation returns the messages on propertyID between a and b in either
	// direction, oldest first.
	Conversation(ctx context.Context, propertyID, a, b int64) ([]models.Message, error)
}

// Store bundles every persistence concern behind one handle.
type Store interface {
	UserStore
	PropertyStore
	VerificationStore
	MessageStore
	Close()
}
