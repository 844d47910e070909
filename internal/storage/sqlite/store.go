// Package sqlite is the embedded store used for local development and tests. It shares
// the listing predicates with the Postgres store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hongminglow/myrent-be/internal/listing"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ storage.Store = (*Store)(nil)

// driverName is go-sqlite3 with LOWER replaced by a Unicode-aware fold, so the
// case-insensitive search predicates match Postgres on non-ASCII text.
const driverName = "sqlite3_myrent"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

type Store struct {
	db *gorm.DB
}

// NewStore opens dsn (a file path or ":memory:") and migrates the schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: driverName, DSN: withForeignKeys(dsn)}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite has a single writer, and an in-memory database lives on one connection.
	sqlDB.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func withForeignKeys(dsn string) string {
	if dsn == ":memory:" {
		dsn = "file::memory:"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func (s *Store) migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&userRow{},
		&propertyRow{},
		&propertyImageRow{},
		&messageRow{},
		&verificationRow{},
	)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *Store) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	row := newUserRow(user)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return row.model(), nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) findUser(ctx context.Context, cond string, arg any) (models.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where(cond, arg).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return row.model(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]models.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.model())
	}
	return users, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&userRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateProperty writes the property row and its image rows in one transaction.
func (s *Store) CreateProperty(ctx context.Context, np models.NewProperty) (models.Property, error) {
	row := propertyRow{
		LandlordID:                np.LandlordID,
		Title:                     np.Title,
		Description:               np.Description,
		Location:                  np.Location,
		Price:                     np.Price,
		LeaseDurationMonths:       np.LeaseDurationMonths,
		OwnershipCertificateToken: np.OwnershipCertificateToken,
		RentExpiryDate:            np.RentExpiryDate,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Create(&row).Error; err != nil {
			if isForeignKeyViolation(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("insert property: %w", err)
		}
		if len(np.ImageURLs) == 0 {
			return nil
		}
		images := make([]propertyImageRow, 0, len(np.ImageURLs))
		for _, url := range np.ImageURLs {
			images = append(images, propertyImageRow{PropertyID: row.ID, ImageURL: url})
		}
		if err := tx.Create(&images).Error; err != nil {
			return fmt.Errorf("insert property images: %w", err)
		}
		row.Images = images
		return nil
	})
	if err != nil {
		return models.Property{}, err
	}
	return row.model(), nil
}

func orderedImages(db *gorm.DB) *gorm.DB { return db.Order("id") }

// ListProperties returns the properties selected by where, newest first.
func (s *Store) ListProperties(ctx context.Context, where listing.Predicate) ([]models.Property, error) {
	q := s.db.WithContext(ctx).Table("properties AS p").Select("p.*")
	if !where.Empty() {
		q = q.Where(where.SQL(), where.Args()...)
	}
	var rows []propertyRow
	if err := q.Preload("Images", orderedImages).Order("p.created_at DESC, p.id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	list := make([]models.Property, 0, len(rows))
	for _, r := range rows {
		list = append(list, r.model())
	}
	return list, nil
}

// GetProperty fetches one property with its owner contact.
func (s *Store) GetProperty(ctx context.Context, id int64) (models.Property, error) {
	var row propertyRow
	err := s.db.WithContext(ctx).Preload("Landlord").Preload("Images", orderedImages).Take(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Property{}, storage.ErrNotFound
		}
		return models.Property{}, fmt.Errorf("get property: %w", err)
	}
	return row.model(), nil
}

func (s *Store) SetOccupancy(ctx context.Context, id int64, occupied bool) error {
	res := s.db.WithContext(ctx).Model(&propertyRow{}).Where("id = ?", id).
		Updates(map[string]any{"is_occupied": occupied, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("update occupancy: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetVerification flips the verified flag and appends the ledger entry atomically.
func (s *Store) SetVerification(ctx context.Context, propertyID, adminID int64, verified bool) (models.VerificationRecord, error) {
	now := time.Now().UTC()
	row := verificationRow{PropertyID: propertyID, AdminID: &adminID, Verified: verified, VerifiedAt: now}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&propertyRow{}).Where("id = ?", propertyID).
			Updates(map[string]any{"verified": verified, "updated_at": now})
		if res.Error != nil {
			return fmt.Errorf("update verification flag: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("append verification record: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.VerificationRecord{}, err
	}
	return row.model(), nil
}

func (s *Store) ListVerifications(ctx context.Context, propertyID int64) ([]models.VerificationRecord, error) {
	var rows []verificationRow
	err := s.db.WithContext(ctx).Where("property_id = ?", propertyID).
		Order("verified_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	out := make([]models.VerificationRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

// CreateMessage checks the recipient and property exist, then inserts the message.
func (s *Store) CreateMessage(ctx context.Context, m models.Message) (models.Message, error) {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&userRow{}).Where("id = ?", m.RecipientID).Count(&n).Error; err != nil {
		return models.Message{}, fmt.Errorf("check recipient: %w", err)
	}
	if n == 0 {
		return models.Message{}, storage.ErrRecipientNotFound
	}
	if err := db.Model(&propertyRow{}).Where("id = ?", m.PropertyID).Count(&n).Error; err != nil {
		return models.Message{}, fmt.Errorf("check property: %w", err)
	}
	if n == 0 {
		return models.Message{}, storage.ErrPropertyNotFound
	}

	row := messageRow{
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		PropertyID:  m.PropertyID,
		Body:        m.Body,
		SentAt:      time.Now().UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		if isForeignKeyViolation(err) {
			return models.Message{}, storage.ErrNotFound
		}
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return row.model(), nil
}

// Conversation returns the messages between a and b on one property, oldest first.
func (s *Store) Conversation(ctx context.Context, propertyID, a, b int64) ([]models.Message, error) {
	var rows []messageRow
	err := s.db.WithContext(ctx).
		Where("property_id = ? AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			propertyID, a, b, b, a).
		Order("sent_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	out := make([]models.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}
