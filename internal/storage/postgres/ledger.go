package postgres

import (
	"context"
	"fmt"

	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

// SetVerification flips the verified flag and appends the ledger entry atomically.
func (s *Store) SetVerification(ctx context.Context, propertyID, adminID int64, verified bool) (models.VerificationRecord, error) {
	rec := models.VerificationRecord{PropertyID: propertyID, AdminID: adminID, Verified: verified}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE properties SET verified = $1, updated_at = NOW() WHERE id = $2`, verified, propertyID)
		if err != nil {
			return fmt.Errorf("update verification flag: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO admin_verifications (property_id, admin_id, verified)
			VALUES ($1, $2, $3)
			RETURNING id, verified_at`, propertyID, adminID, verified).Scan(&rec.ID, &rec.VerifiedAt)
		if err != nil {
			return fmt.Errorf("append verification record: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.VerificationRecord{}, err
	}
	return rec, nil
}

// ListVerifications returns the ledger of a property, newest first.
func (s *Store) ListVerifications(ctx context.Context, propertyID int64) ([]models.VerificationRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, property_id, COALESCE(admin_id, 0), verified, verified_at
		FROM admin_verifications
		WHERE property_id = $1
		ORDER BY verified_at DESC, id DESC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.VerificationRecord, error) {
		var r models.VerificationRecord
		err := row.Scan(&r.ID, &r.PropertyID, &r.AdminID, &r.Verified, &r.VerifiedAt)
		return r, err
	})
}
