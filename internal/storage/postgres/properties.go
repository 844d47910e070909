package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/myrent-be/internal/listing"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

const propertyColumns = `p.id, p.landlord_id, p.title, p.description, p.location, p.price::float8,
	p.lease_duration_months, p.is_occupied, p.verified, p.ownership_certificate_token,
	p.rent_expiry_date, p.created_at, p.updated_at`

// CreateProperty inserts the property and its image rows in one transaction, so a
// property is never observable without its images.
func (s *Store) CreateProperty(ctx context.Context, np models.NewProperty) (models.Property, error) {
	var created models.Property
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO properties AS p (landlord_id, title, description, location, price, lease_duration_months, ownership_certificate_token, rent_expiry_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+propertyColumns,
			np.LandlordID, np.Title, np.Description, np.Location, np.Price, np.LeaseDurationMonths,
			np.OwnershipCertificateToken, np.RentExpiryDate,
		)
		var err error
		if created, err = scanProperty(row); err != nil {
			if pgCode(err) == codeForeignKeyViolation {
				return storage.ErrNotFound
			}
			return fmt.Errorf("insert property: %w", err)
		}

		batch := &pgx.Batch{}
		for _, url := range np.ImageURLs {
			batch.Queue(`INSERT INTO property_images (property_id, image_url) VALUES ($1, $2)`, created.ID, url)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert property images: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Property{}, err
	}
	created.Images = append([]string(nil), np.ImageURLs...)
	return created, nil
}

// ListProperties returns the properties selected by where, newest first.
func (s *Store) ListProperties(ctx context.Context, where listing.Predicate) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p` + where.Where() + ` ORDER BY p.created_at DESC, p.id DESC`
	rows, err := s.pool.Query(ctx, listing.Rebind(query), where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Property, error) {
		return scanProperty(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan properties: %w", err)
	}
	if err := s.attachImages(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetProperty fetches one property with its owner contact.
func (s *Store) GetProperty(ctx context.Context, id int64) (models.Property, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+propertyColumns+`, u.id, u.name, u.email, u.phone
		FROM properties p
		JOIN users u ON u.id = p.landlord_id
		WHERE p.id = $1`, id)

	var p models.Property
	var owner models.Contact
	if err := row.Scan(&p.ID, &p.LandlordID, &p.Title, &p.Description, &p.Location, &p.Price,
		&p.LeaseDurationMonths, &p.IsOccupied, &p.Verified, &p.OwnershipCertificateToken,
		&p.RentExpiryDate, &p.CreatedAt, &p.UpdatedAt,
		&owner.ID, &owner.Name, &owner.Email, &owner.Phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Property{}, storage.ErrNotFound
		}
		return models.Property{}, fmt.Errorf("get property: %w", err)
	}
	p.Owner = &owner

	list := []models.Property{p}
	if err := s.attachImages(ctx, list); err != nil {
		return models.Property{}, err
	}
	return list[0], nil
}

// SetOccupancy updates is_occupied. Ownership is checked by the caller.
func (s *Store) SetOccupancy(ctx context.Context, id int64, occupied bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE properties SET is_occupied = $1, updated_at = NOW() WHERE id = $2`, occupied, id)
	if err != nil {
		return fmt.Errorf("update occupancy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) attachImages(ctx context.Context, list []models.Property) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	index := make(map[int64]int, len(list))
	for i, p := range list {
		ids[i] = p.ID
		index[p.ID] = i
		list[i].Images = []string{}
	}
	rows, err := s.pool.Query(ctx, `SELECT property_id, image_url FROM property_images WHERE property_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load property images: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var propertyID int64
		var url string
		if err := rows.Scan(&propertyID, &url); err != nil {
			return fmt.Errorf("scan property image: %w", err)
		}
		i := index[propertyID]
		list[i].Images = append(list[i].Images, url)
	}
	return rows.Err()
}

func scanProperty(row pgx.Row) (models.Property, error) {
	var p models.Property
	err := row.Scan(&p.ID, &p.LandlordID, &p.Title, &p.Description, &p.Location, &p.Price,
		&p.LeaseDurationMonths, &p.IsOccupied, &p.Verified, &p.OwnershipCertificateToken,
		&p.RentExpiryDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
